package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voyago/travel_proposal_app/internal/core/domain"
	portsrepo "github.com/voyago/travel_proposal_app/internal/core/ports/repositories"
)

type PgxReportingRepository struct {
	BaseRepository
}

func newPgxReportingRepository(db *pgxpool.Pool) *PgxReportingRepository {
	return &PgxReportingRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

func (r *PgxReportingRepository) CountProposalsByStatus(ctx context.Context, adminID *string) ([]portsrepo.StatusCount, error) {
	query := `
		SELECT status, COUNT(*)
		FROM proposals
		WHERE is_active = TRUE AND ($1::text IS NULL OR admin_id = $1)
		GROUP BY status
		ORDER BY status;`
	rows, err := r.Pool.Query(ctx, query, adminID)
	if err != nil {
		return nil, fmt.Errorf("failed to count proposals by status: %w", err)
	}
	defer rows.Close()

	counts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (portsrepo.StatusCount, error) {
		var sc portsrepo.StatusCount
		err := row.Scan(&sc.Status, &sc.Count)
		return sc, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect status counts: %w", err)
	}
	return counts, nil
}

func (r *PgxReportingRepository) SumAcceptedTotals(ctx context.Context, adminID *string) ([]portsrepo.CurrencyTotal, error) {
	query := `
		SELECT currency_code, COALESCE(SUM(COALESCE(final_amount, total_price)), 0), COUNT(*)
		FROM proposals
		WHERE is_active = TRUE AND accepted_at IS NOT NULL
			AND ($1::text IS NULL OR admin_id = $1)
		GROUP BY currency_code
		ORDER BY currency_code;`
	rows, err := r.Pool.Query(ctx, query, adminID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum accepted totals: %w", err)
	}
	defer rows.Close()

	totals, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (portsrepo.CurrencyTotal, error) {
		var ct portsrepo.CurrencyTotal
		err := row.Scan(&ct.CurrencyCode, &ct.Total, &ct.Count)
		return ct, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect currency totals: %w", err)
	}
	return totals, nil
}

func (r *PgxReportingRepository) AverageNegotiationRounds(ctx context.Context, adminID *string) (float64, error) {
	// Only proposals that received at least one customer response count.
	query := `
		SELECT COALESCE(AVG(negotiation_rounds), 0)
		FROM proposals
		WHERE is_active = TRUE
			AND status NOT IN ($2, $3)
			AND sent_at IS NOT NULL
			AND (viewed_at IS NOT NULL OR negotiation_rounds > 0 OR accepted_at IS NOT NULL OR rejected_at IS NOT NULL)
			AND ($1::text IS NULL OR admin_id = $1);`
	var avg float64
	err := r.Pool.QueryRow(ctx, query, adminID, domain.StatusDraft, domain.StatusReview).Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("failed to average negotiation rounds: %w", err)
	}
	return avg, nil
}
