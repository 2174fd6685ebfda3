package application

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/bnema/aicms-cli/internal/domain"
	"github.com/bnema/aicms-cli/internal/ports"
	"go.uber.org/zap"
)

const currentUserPath = "auth/me/"

type IdentityResolver struct {
	gateway ports.Gateway
	logger  *zap.Logger
}

func NewIdentityResolver(gateway ports.Gateway, logger *zap.Logger) *IdentityResolver {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &IdentityResolver{gateway: gateway, logger: logger}
}

// ResolveCurrentUser asks the backend who the caller is. Any failure,
// including an unreachable backend, resolves to the anonymous identity (nil).
func (r *IdentityResolver) ResolveCurrentUser(ctx context.Context) *domain.Identity {
	raw, err := r.gateway.Do(ctx, http.MethodGet, currentUserPath, nil)
	if err != nil {
		r.logger.Debug("identity_unresolved", zap.Error(err))
		return nil
	}

	var payload struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		r.logger.Debug("identity_payload_invalid", zap.Error(err))
		return nil
	}
	if strings.TrimSpace(payload.Username) == "" {
		return nil
	}

	return &domain.Identity{
		ID:       payload.ID,
		Username: payload.Username,
		Email:    payload.Email,
	}
}
