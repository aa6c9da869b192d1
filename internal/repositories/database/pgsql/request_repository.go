package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voyago/travel_proposal_app/internal/apperrors"
	"github.com/voyago/travel_proposal_app/internal/core/domain"
	portsrepo "github.com/voyago/travel_proposal_app/internal/core/ports/repositories"
	"github.com/voyago/travel_proposal_app/internal/utils/pagination"
)

type PgxRequestRepository struct {
	BaseRepository
}

func newPgxRequestRepository(db *pgxpool.Pool) *PgxRequestRepository {
	return &PgxRequestRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.RequestRepositoryFacade = (*PgxRequestRepository)(nil)

const requestColumns = `
	request_id, user_id, customer_email, destination, start_date, end_date,
	travelers_count, budget, currency_code, notes, status,
	proposal_count, last_proposal_sent, admin_note,
	created_at, created_by, last_updated_at, last_updated_by`

func scanRequest(row pgx.Row) (*domain.PackageRequest, error) {
	var req domain.PackageRequest
	err := row.Scan(
		&req.RequestID, &req.UserID, &req.CustomerEmail, &req.Destination, &req.StartDate, &req.EndDate,
		&req.TravelersCount, &req.Budget, &req.CurrencyCode, &req.Notes, &req.Status,
		&req.ProposalCount, &req.LastProposalSent, &req.AdminNote,
		&req.CreatedAt, &req.CreatedBy, &req.LastUpdatedAt, &req.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *PgxRequestRepository) SaveRequest(ctx context.Context, request domain.PackageRequest) error {
	query := `
		INSERT INTO package_requests (
			request_id, user_id, customer_email, destination, start_date, end_date,
			travelers_count, budget, currency_code, notes, status,
			proposal_count, last_proposal_sent, admin_note,
			created_at, created_by, last_updated_at, last_updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);`
	_, err := r.Pool.Exec(ctx, query,
		request.RequestID, request.UserID, request.CustomerEmail, request.Destination, request.StartDate, request.EndDate,
		request.TravelersCount, request.Budget, request.CurrencyCode, request.Notes, request.Status,
		request.ProposalCount, request.LastProposalSent, request.AdminNote,
		request.CreatedAt, request.CreatedBy, request.LastUpdatedAt, request.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save package request: %w", err)
	}
	return nil
}

func (r *PgxRequestRepository) FindRequestByID(ctx context.Context, requestID string) (*domain.PackageRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM package_requests WHERE request_id = $1;`
	req, err := scanRequest(r.Pool.QueryRow(ctx, query, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find request by ID %s: %w", requestID, err)
	}
	return req, nil
}

func (r *PgxRequestRepository) ListRequestsByUser(ctx context.Context, userID string) ([]domain.PackageRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM package_requests WHERE user_id = $1 ORDER BY created_at DESC;`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests for user %s: %w", userID, err)
	}
	defer rows.Close()

	var requests []domain.PackageRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request row: %w", err)
		}
		requests = append(requests, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating request rows: %w", err)
	}
	return requests, nil
}

// ListRequests retrieves a paginated list of requests using token-based pagination.
func (r *PgxRequestRepository) ListRequests(ctx context.Context, status *domain.RequestStatus, limit int, nextToken *string) ([]domain.PackageRequest, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	query := `SELECT ` + requestColumns + ` FROM package_requests WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, *status)
		argIdx++
	}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query += fmt.Sprintf(" AND (created_at, request_id) < ($%d, $%d)", argIdx, argIdx+1)
		args = append(args, lastCreatedAt, lastID)
		argIdx += 2
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC, request_id DESC LIMIT $%d;", argIdx)
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	var requests []domain.PackageRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan request row: %w", err)
		}
		requests = append(requests, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating request rows: %w", err)
	}

	var nextTokenVal *string
	if len(requests) > limit {
		requests = requests[:limit]
		last := requests[len(requests)-1]
		token := pagination.EncodeToken(last.CreatedAt, last.RequestID)
		nextTokenVal = &token
	}
	return requests, nextTokenVal, nil
}

func (r *PgxRequestRepository) UpdateRequestStatus(ctx context.Context, requestID string, status domain.RequestStatus, adminNote *string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE package_requests
		SET status = $2, admin_note = COALESCE($3, admin_note), last_updated_at = $4, last_updated_by = $5
		WHERE request_id = $1;`
	tag, err := r.Pool.Exec(ctx, query, requestID, status, adminNote, updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update status of request %s: %w", requestID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// RefreshProposalStats recomputes proposal_count from the live count of active
// proposals referencing the request, so the denormalized counter never drifts.
func (r *PgxRequestRepository) RefreshProposalStats(ctx context.Context, requestID string, lastProposalSent *time.Time, updatedAt time.Time) error {
	query := `
		UPDATE package_requests
		SET proposal_count = (SELECT COUNT(*) FROM proposals WHERE request_id = $1 AND is_active = TRUE),
			last_proposal_sent = COALESCE($2, last_proposal_sent),
			last_updated_at = $3
		WHERE request_id = $1;`
	tag, err := r.Pool.Exec(ctx, query, requestID, lastProposalSent, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to refresh proposal stats of request %s: %w", requestID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
