package httpadapter

import (
	"context"
	"log/slog"
	"strings"

	"sitesense/contexts/identity-access/account-service/application"
	"sitesense/contexts/identity-access/account-service/domain/entities"
	"sitesense/contexts/identity-access/account-service/ports"
	httptransport "sitesense/contexts/identity-access/account-service/transport/http"
)

// Handler maps HTTP DTOs to application operations.
type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) RegisterHandler(ctx context.Context, req httptransport.RegisterRequest) (httptransport.AccountResponse, error) {
	account, err := h.Service.Register(ctx, application.RegisterInput{
		Username:     req.Username,
		Email:        req.Email,
		Password:     req.Password,
		Organization: req.Organization,
	})
	if err != nil {
		return httptransport.AccountResponse{}, err
	}
	return accountResponse(account), nil
}

func (h Handler) LoginHandler(ctx context.Context, req httptransport.LoginRequest) (httptransport.LoginResponse, error) {
	token, err := h.Service.Login(ctx, req.Username, req.Password)
	if err != nil {
		return httptransport.LoginResponse{}, err
	}
	return httptransport.LoginResponse{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
	}, nil
}

func (h Handler) MeHandler(ctx context.Context, username string) (httptransport.AccountResponse, error) {
	account, err := h.Service.GetByUsername(ctx, username)
	if err != nil {
		return httptransport.AccountResponse{}, err
	}
	return accountResponse(account), nil
}

func (h Handler) ListHandler(ctx context.Context, actorUsername string) ([]httptransport.AccountResponse, error) {
	accounts, err := h.Service.List(ctx, actorUsername)
	if err != nil {
		return nil, err
	}
	items := make([]httptransport.AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		items = append(items, accountResponse(account))
	}
	return items, nil
}

func (h Handler) UpdateHandler(ctx context.Context, actorUsername string, accountID string, req httptransport.UpdateAccountRequest) (httptransport.AccountResponse, error) {
	account, err := h.Service.Update(ctx, actorUsername, strings.TrimSpace(accountID), application.UpdateAccountInput{
		Email:        req.Email,
		Password:     req.Password,
		Organization: req.Organization,
	})
	if err != nil {
		return httptransport.AccountResponse{}, err
	}
	return accountResponse(account), nil
}

func (h Handler) DeactivateHandler(ctx context.Context, actorUsername string, accountID string) error {
	return h.Service.Deactivate(ctx, actorUsername, strings.TrimSpace(accountID))
}

func (h Handler) SetRoleHandler(ctx context.Context, actorUsername string, req httptransport.SetRoleRequest) (httptransport.SetRoleResponse, error) {
	changed, err := h.Service.SetRole(ctx, actorUsername, application.SetRoleInput{
		AccountID: strings.TrimSpace(req.UserID),
		Role:      req.Role,
	})
	if err != nil {
		return httptransport.SetRoleResponse{}, err
	}
	return httptransport.SetRoleResponse{Changed: changed}, nil
}

func (h Handler) SetAccessHandler(ctx context.Context, actorUsername string, req httptransport.SetAccessRequest) error {
	return h.Service.SetAccess(ctx, actorUsername, ports.AccessMutation{
		AccountID:    strings.TrimSpace(req.UserID),
		ResourceType: strings.TrimSpace(req.ResourceType),
		ResourceIDs:  req.ResourceIDs,
		Access:       strings.TrimSpace(req.Access),
	})
}

func accountResponse(account entities.Account) httptransport.AccountResponse {
	return httptransport.AccountResponse{
		ID:           account.ID,
		Username:     account.Username,
		Email:        account.Email,
		Role:         account.Role,
		Organization: account.Organization,
		IsActive:     account.IsActive,
		IsSuperuser:  account.IsSuperuser,
		ProjectIDs:   copyOrEmpty(account.ProjectIDs),
		WorksiteIDs:  copyOrEmpty(account.WorksiteIDs),
	}
}

func copyOrEmpty(items []string) []string {
	if len(items) == 0 {
		return []string{}
	}
	return append([]string(nil), items...)
}
