// Seed populates a development database with the platform founder, two
// demo tenants and sample CRM data.
package main

import (
	"time"

	"go.uber.org/zap"

	"devhub-api/internal/service"
	"devhub-api/pkg/config"
	"devhub-api/pkg/database"
	"devhub-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	if err := logger.InitLogger(cfg); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()

	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	db := database.GetDB()

	users := service.NewUserService(db)
	tenants := service.NewTenantService(db)
	crm := service.NewCRMService(db)
	projects := service.NewProjectService(db)
	invoices := service.NewInvoiceService(db)

	// Founder account, USR-000
	founder, err := users.CreateFounder(service.CreateFounderInput{
		Email:    "founder@devhub.io",
		FullName: "Platform Founder",
		Password: "founder-dev-password",
	})
	if err != nil {
		log.Fatal("Failed to create founder", zap.Error(err))
	}
	log.Info("Founder created", zap.String("system_id", founder.SystemID))

	founderCtx, err := tenants.GetTenantContext(founder.SystemID)
	if err != nil {
		log.Fatal("Failed to resolve founder context", zap.Error(err))
	}

	type demoTenant struct {
		name, email, ownerEmail, ownerName string
	}
	for _, dt := range []demoTenant{
		{"ACME Corp", "info@acme.example", "owner@acme.example", "Alice Anderson"},
		{"TechFlow Solutions", "hello@techflow.example", "owner@techflow.example", "Bob Brown"},
	} {
		tenant, owner, err := tenants.CreateTenant(founderCtx, service.CreateTenantInput{
			BusinessName:  dt.name,
			BusinessEmail: dt.email,
			OwnerEmail:    dt.ownerEmail,
			OwnerFullName: dt.ownerName,
			OwnerPassword: "owner-dev-password",
			MaxUsers:      10,
		})
		if err != nil {
			log.Fatal("Failed to create tenant", zap.String("name", dt.name), zap.Error(err))
		}
		log.Info("Tenant created",
			zap.String("system_id", tenant.SystemID),
			zap.String("owner_id", owner.SystemID))

		ownerCtx, err := tenants.GetTenantContext(owner.SystemID)
		if err != nil {
			log.Fatal("Failed to resolve owner context", zap.Error(err))
		}

		manager, err := users.CreateUser(ownerCtx, service.CreateUserInput{
			Email:    "manager." + tenant.SystemID + "@devhub.io",
			FullName: "Demo Manager",
			Password: "manager-dev-password",
			UserRole: "MANAGER",
		})
		if err != nil {
			log.Fatal("Failed to create manager", zap.Error(err))
		}
		log.Info("Manager created", zap.String("system_id", manager.SystemID))

		customer, err := crm.CreateCustomer(ownerCtx, service.CreateCustomerInput{
			Company:     dt.name + " Client",
			ContactName: "Carol Clark",
			Email:       "carol@client.example",
			Phone:       "+1-555-0100",
		})
		if err != nil {
			log.Fatal("Failed to create customer", zap.Error(err))
		}

		if _, err := crm.CreateInteraction(ownerCtx, customer.SystemID, service.CreateInteractionInput{
			InteractionType: "call",
			Subject:         "Kickoff call",
			Outcome:         "positive",
		}); err != nil {
			log.Fatal("Failed to create interaction", zap.Error(err))
		}

		if _, err := crm.CreateLead(ownerCtx, service.CreateLeadInput{
			Company:        "Prospect Inc",
			ContactName:    "Dave Davis",
			Email:          "dave@prospect.example",
			Source:         "website",
			EstimatedValue: 25000,
		}); err != nil {
			log.Fatal("Failed to create lead", zap.Error(err))
		}

		project, err := projects.CreateProject(ownerCtx, service.CreateProjectInput{
			Name:       "Website Redesign",
			CustomerID: customer.SystemID,
			Priority:   "high",
		})
		if err != nil {
			log.Fatal("Failed to create project", zap.Error(err))
		}

		now := time.Now().UTC()
		if _, err := invoices.CreateInvoice(ownerCtx, service.CreateInvoiceInput{
			CustomerID:  customer.SystemID,
			ProjectID:   project.SystemID,
			IssueDate:   now,
			DueDate:     now.AddDate(0, 1, 0),
			AmountCents: 450000,
		}); err != nil {
			log.Fatal("Failed to create invoice", zap.Error(err))
		}
	}

	log.Info("Seed complete")
}
