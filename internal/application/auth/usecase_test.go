package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/pkg/jwt"
)

const testSecret = "test-secret"

func newAuth() *AuthUseCase {
	repo := memory.NewUserRepository(memory.NewStore())
	return NewAuthUseCase(repo, JWTConfig{Secret: testSecret, ExpMinutes: 5, Issuer: "test"}, zerolog.Nop())
}

func TestRegisterUser_RolPorDefectoYLogin(t *testing.T) {
	uc := newAuth()
	ctx := context.Background()

	u, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "Ana@Bodega.co", Password: "clave-segura"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleVendedor, u.Role)
	assert.Equal(t, "ana@bodega.co", u.Email)

	resp, err := uc.Login(ctx, dto.LoginRequest{Email: "ana@bodega.co", Password: "clave-segura"})
	require.NoError(t, err)
	userID, role, err := jwt.Parse(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, userID)
	assert.Equal(t, entity.RoleVendedor, role)
}

func TestRegisterUser_EmailDuplicado(t *testing.T) {
	uc := newAuth()
	ctx := context.Background()

	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "a@b.co", Password: "12345678"})
	require.NoError(t, err)
	_, err = uc.RegisterUser(ctx, dto.RegisterRequest{Email: "A@B.CO", Password: "12345678"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegisterUser_Validaciones(t *testing.T) {
	uc := newAuth()
	cases := []struct {
		name  string
		in    dto.RegisterRequest
		field string
	}{
		{"email inválido", dto.RegisterRequest{Email: "no-es-email", Password: "12345678"}, "email"},
		{"password corta", dto.RegisterRequest{Email: "a@b.co", Password: "123"}, "password"},
		{"rol desconocido", dto.RegisterRequest{Email: "a@b.co", Password: "12345678", Role: "gerente"}, "role"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.RegisterUser(context.Background(), tc.in)
			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tc.field, ve.Field)
		})
	}
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc := newAuth()
	ctx := context.Background()
	_, err := uc.RegisterUser(ctx, dto.RegisterRequest{Email: "a@b.co", Password: "12345678"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "a@b.co", Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@b.co", Password: "12345678"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestEnsureAdmin_Idempotente(t *testing.T) {
	uc := newAuth()
	ctx := context.Background()

	require.NoError(t, uc.EnsureAdmin(ctx, "admin@inv.co", "admin-1234"))
	require.NoError(t, uc.EnsureAdmin(ctx, "admin@inv.co", "admin-1234"))
	require.NoError(t, uc.EnsureAdmin(ctx, "", ""))

	resp, err := uc.Login(ctx, dto.LoginRequest{Email: "admin@inv.co", Password: "admin-1234"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, resp.User.Role)
}
