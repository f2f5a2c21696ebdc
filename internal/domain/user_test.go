package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole(t *testing.T) {
	assert.True(t, RoleLeader.Valid())
	assert.False(t, Role("Líder").Valid())
	assert.True(t, RoleAdministrator.In(ManagerRoles))
	assert.False(t, RoleMember.In(ManagerRoles))

	member := &User{Username: "ana", Role: RoleMember}
	assert.False(t, member.CanManage())
}

func TestMapErrorToCode(t *testing.T) {
	assert.Equal(t, CodeValidation, MapErrorToCode(NewValidationError("points", "must be an integer")))
	assert.Equal(t, CodeNotFound, MapErrorToCode(ErrTeamNotFound))
	assert.Equal(t, CodeNotFound, MapErrorToCode(ErrUserNotFound))
	assert.Equal(t, CodeUnavailable, MapErrorToCode(ErrStorageUnavailable))
	assert.Equal(t, CodeForbidden, MapErrorToCode(ErrForbidden))
	assert.Equal(t, CodeInternal, MapErrorToCode(errors.New("boom")))
}
