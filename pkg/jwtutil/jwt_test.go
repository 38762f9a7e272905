package jwtutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	tenantID := "TNT-000"
	token, err := GenerateToken("owner@acme.example", "USR-001", "BUSINESS_OWNER", false, &tenantID, "Acme Corp")
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "owner@acme.example", claims.Email)
	assert.Equal(t, "USR-001", claims.UserID)
	assert.Equal(t, "BUSINESS_OWNER", claims.Role)
	assert.False(t, claims.IsFounder)
	require.NotNil(t, claims.TenantID)
	assert.Equal(t, "TNT-000", *claims.TenantID)
	assert.Equal(t, "Acme Corp", claims.TenantName)
}

func TestValidateTokenFounderHasNoTenant(t *testing.T) {
	token, err := GenerateToken("founder@devhub.example", "USR-000", "FOUNDER", true, nil, "")
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.True(t, claims.IsFounder)
	assert.Nil(t, claims.TenantID)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	token, err := GenerateToken("owner@acme.example", "USR-001", "BUSINESS_OWNER", false, nil, "")
	require.NoError(t, err)

	_, err = ValidateToken(token + "x")
	assert.Error(t, err)

	_, err = ValidateToken("not.a.token")
	assert.Error(t, err)
}
