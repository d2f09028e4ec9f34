package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Elias-Front-end/management-system/internal/access"
	"github.com/Elias-Front-end/management-system/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(db *memDB) *authService {
	svc := NewAuthService(db, db, nopLogger).(*authService)
	svc.hasher = testHasher
	svc.now = fixedNow("2025-01-05")
	return svc
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	admin := db.seedAdmin(t, "coordenacao", "admin-pass", false)
	joao := db.seedStudent(t, "joaosilva", "João Silva", "joao@example.com", "student-pass")
	svc := newAuthService(db)

	t.Run("username and matching profile", func(t *testing.T) {
		sess, err := svc.Login(ctx, "coordenacao", "admin-pass", ProfileAdmin)
		require.NoError(t, err)
		assert.Equal(t, access.Admin{AccountID: admin.ID}, sess.Actor)
		assert.Nil(t, sess.Student)
		require.NotNil(t, sess.Account.LastLogin)
	})

	t.Run("display name resolves to the student's account", func(t *testing.T) {
		sess, err := svc.Login(ctx, "João Silva", "student-pass", ProfileStudent)
		require.NoError(t, err)
		assert.Equal(t, access.Student{AccountID: joao.AccountID, StudentID: joao.ID}, sess.Actor)
		require.NotNil(t, sess.Student)
		assert.Equal(t, joao.ID, sess.Student.ID)
	})

	t.Run("display name match is case-insensitive", func(t *testing.T) {
		_, err := svc.Login(ctx, "joão silva", "student-pass", ProfileStudent)
		assert.NoError(t, err)
	})

	t.Run("student credentials claiming admin is a role mismatch", func(t *testing.T) {
		_, err := svc.Login(ctx, "joaosilva", "student-pass", ProfileAdmin)
		assert.ErrorIs(t, err, ErrRoleMismatch)
	})

	t.Run("admin credentials claiming student is a role mismatch", func(t *testing.T) {
		_, err := svc.Login(ctx, "coordenacao", "admin-pass", ProfileStudent)
		assert.ErrorIs(t, err, ErrRoleMismatch)
	})

	t.Run("wrong password is invalid credentials", func(t *testing.T) {
		_, err := svc.Login(ctx, "joaosilva", "nope-nope", ProfileStudent)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		_, err = svc.Login(ctx, "João Silva", "nope-nope", ProfileStudent)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown identifier is invalid credentials", func(t *testing.T) {
		_, err := svc.Login(ctx, "ghost", "whatever1", ProfileStudent)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("missing fields and unknown profile type are validation errors", func(t *testing.T) {
		_, err := svc.Login(ctx, " ", "", "instructor")
		var verr *model.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.True(t, verr.Has("username"))
		assert.True(t, verr.Has("password"))
		assert.True(t, verr.Has("profile_type"))
	})
}

func TestLogin_EdgeCases(t *testing.T) {
	ctx := context.Background()

	t.Run("ambiguous display name is not used", func(t *testing.T) {
		db := newMemDB()
		db.seedStudent(t, "ana1", "Ana Souza", "ana1@example.com", "student-pass")
		db.seedStudent(t, "ana2", "Ana Souza", "ana2@example.com", "student-pass")
		_, err := newAuthService(db).Login(ctx, "Ana Souza", "student-pass", ProfileStudent)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unusable password never matches", func(t *testing.T) {
		db := newMemDB()
		db.seedStudent(t, "semsenha", "Sem Senha", "sem@example.com", "")
		_, err := newAuthService(db).Login(ctx, "semsenha", "anything1", ProfileStudent)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive account cannot log in", func(t *testing.T) {
		db := newMemDB()
		a := db.seedAdmin(t, "inativo", "admin-pass", false)
		db.accounts[0].IsActive = false
		_, err := newAuthService(db).Login(ctx, a.Username, "admin-pass", ProfileAdmin)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("non-admin account without profile is a role mismatch", func(t *testing.T) {
		db := newMemDB()
		hash, err := testHasher.hash("plain-pass")
		require.NoError(t, err)
		require.NoError(t, db.CreateAccount(ctx, &model.Account{Username: "plain", PasswordHash: hash}))
		_, err = newAuthService(db).Login(ctx, "plain", "plain-pass", ProfileStudent)
		assert.ErrorIs(t, err, ErrRoleMismatch)
	})
}

func TestResolveActorAndMe(t *testing.T) {
	ctx := context.Background()
	db := newMemDB()
	su := db.seedAdmin(t, "root", "admin-pass", true)
	st := db.seedStudent(t, "maria", "Maria", "maria@example.com", "student-pass")
	svc := newAuthService(db)

	actor, err := svc.ResolveActor(ctx, su.ID)
	require.NoError(t, err)
	assert.Equal(t, access.Superuser{AccountID: su.ID}, actor)

	actor, err = svc.ResolveActor(ctx, st.AccountID)
	require.NoError(t, err)
	assert.Equal(t, access.Student{AccountID: st.AccountID, StudentID: st.ID}, actor)

	actor, err = svc.ResolveActor(ctx, "not-a-uuid")
	require.NoError(t, err)
	assert.Equal(t, access.Anonymous{}, actor)

	sess, err := svc.Me(ctx, access.Student{AccountID: st.AccountID, StudentID: st.ID})
	require.NoError(t, err)
	assert.Equal(t, "maria", sess.Account.Username)
	require.NotNil(t, sess.Student)

	_, err = svc.Me(ctx, access.Anonymous{})
	assert.ErrorIs(t, err, access.ErrUnauthenticated)
}
