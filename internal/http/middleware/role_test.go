package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func masjid(id int) *int { return &id }

func TestParseRole(t *testing.T) {
	super, err := ParseRole("super_admin", nil)
	require.NoError(t, err)
	assert.Equal(t, RoleSuperAdmin, super.Kind)

	admin, err := ParseRole("tenant_admin", masjid(4))
	require.NoError(t, err)
	assert.Equal(t, RoleTenantAdmin, admin.Kind)
	assert.Equal(t, 4, admin.MasjidID)

	editor, err := ParseRole("content_editor", masjid(4))
	require.NoError(t, err)
	assert.Equal(t, RoleContentEditor, editor.Kind)

	viewer, err := ParseRole("viewer", masjid(4))
	require.NoError(t, err)
	assert.Equal(t, RoleViewer, viewer.Kind)
}

func TestParseRole_TenantRoleWithoutMasjidFails(t *testing.T) {
	_, err := ParseRole("tenant_admin", nil)
	assert.Error(t, err)

	_, err = ParseRole("viewer", nil)
	assert.Error(t, err)
}

func TestParseRole_UnknownRoleFails(t *testing.T) {
	_, err := ParseRole("owner", masjid(1))
	assert.Error(t, err)
}

func TestRolePermissions(t *testing.T) {
	super, _ := ParseRole("super_admin", nil)
	admin, _ := ParseRole("tenant_admin", masjid(1))
	editor, _ := ParseRole("content_editor", masjid(1))
	viewer, _ := ParseRole("viewer", masjid(1))

	// content
	assert.True(t, super.CanManageContent(99))
	assert.True(t, admin.CanManageContent(1))
	assert.False(t, admin.CanManageContent(2))
	assert.True(t, editor.CanManageContent(1))
	assert.False(t, viewer.CanManageContent(1))

	// devices
	assert.True(t, super.CanManageDevices(99))
	assert.True(t, admin.CanManageDevices(1))
	assert.False(t, editor.CanManageDevices(1))
	assert.False(t, viewer.CanManageDevices(1))

	// read
	assert.True(t, viewer.CanView(1))
	assert.False(t, viewer.CanView(2))
	assert.True(t, super.CanView(2))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("secret-phrase")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "secret-phrase"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestDeviceTokenRoundTrip(t *testing.T) {
	token, err := GenerateDeviceJWT(7, 3, "test-secret")
	require.NoError(t, err)

	deviceID, masjidID, err := ParseDeviceToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, 7, deviceID)
	assert.Equal(t, 3, masjidID)

	_, _, err = ParseDeviceToken(token, "other-secret")
	assert.Error(t, err)
}

func TestAdminTokenRejectedAsDeviceToken(t *testing.T) {
	token, err := GenerateJWT(12, "test-secret")
	require.NoError(t, err)

	_, _, err = ParseDeviceToken(token, "test-secret")
	assert.Error(t, err)
}
