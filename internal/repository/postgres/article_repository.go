package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/covatech/replengo/internal/domain"
	"github.com/covatech/replengo/internal/trend"
	"github.com/jmoiron/sqlx"
)

// ArticleRepository is the Postgres-backed store of article master data,
// transactions and computed replenishment records.
type ArticleRepository struct {
	db *DB
}

func NewArticleRepository(db *DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

type articleRow struct {
	Code             string    `db:"code"`
	Name             string    `db:"name"`
	Supplier         string    `db:"supplier"`
	Class            string    `db:"class"`
	Subclass         string    `db:"subclass"`
	Status           string    `db:"status"`
	Cost             float64   `db:"cost"`
	CatalogPrice     float64   `db:"catalog_price"`
	SalePrice        float64   `db:"sale_price"`
	StockAvailable   float64   `db:"stock_available"`
	StockInTransit   float64   `db:"stock_in_transit"`
	StockStores      float64   `db:"stock_stores"`
	SalesLast4M      float64   `db:"sales_last_4m"`
	SalesLast360D    float64   `db:"sales_last_360d"`
	SalesLast3M      float64   `db:"sales_last_3m"`
	SalesCurrentYear float64   `db:"sales_current_year"`
	SalesPriorYear   float64   `db:"sales_prior_year"`
	SalesHistory     []byte    `db:"sales_history"`
	UpdatedAt        time.Time `db:"updated_at"`
}

const articleColumns = `code, name, supplier, class, subclass, status,
		cost, catalog_price, sale_price,
		stock_available, stock_in_transit, stock_stores,
		sales_last_4m, sales_last_360d, sales_last_3m,
		sales_current_year, sales_prior_year,
		COALESCE(sales_history, '{}'::jsonb) AS sales_history,
		updated_at`

func (r *articleRow) toDomain() (domain.Article, error) {
	a := domain.Article{
		Code:             r.Code,
		Name:             r.Name,
		Supplier:         r.Supplier,
		Class:            r.Class,
		Subclass:         r.Subclass,
		Status:           r.Status,
		Cost:             r.Cost,
		CatalogPrice:     r.CatalogPrice,
		SalePrice:        r.SalePrice,
		StockAvailable:   r.StockAvailable,
		StockInTransit:   r.StockInTransit,
		StockStores:      r.StockStores,
		SalesLast4M:      r.SalesLast4M,
		SalesLast360D:    r.SalesLast360D,
		SalesLast3M:      r.SalesLast3M,
		SalesCurrentYear: r.SalesCurrentYear,
		SalesPriorYear:   r.SalesPriorYear,
		UpdatedAt:        r.UpdatedAt,
	}

	if len(r.SalesHistory) > 0 {
		if err := json.Unmarshal(r.SalesHistory, &a.SalesHistory); err != nil {
			return a, fmt.Errorf("article %s: decode sales history: %w", r.Code, err)
		}
	}
	if a.SalesHistory == nil {
		a.SalesHistory = domain.MonthlyHistory{}
	}

	return a, nil
}

// ListArticles loads the full article master set. A row with an unreadable
// history is skipped, not fatal: one bad record must not abort the batch.
func (r *ArticleRepository) ListArticles(ctx context.Context) ([]domain.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles ORDER BY code`

	var rows []articleRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}

	articles := make([]domain.Article, 0, len(rows))
	for i := range rows {
		a, err := rows[i].toDomain()
		if err != nil {
			continue
		}
		articles = append(articles, a)
	}

	return articles, nil
}

// GetArticle loads one article by code. Returns nil when absent.
func (r *ArticleRepository) GetArticle(ctx context.Context, code string) (*domain.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE code = $1`

	var row articleRow
	if err := r.db.GetContext(ctx, &row, query, code); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get article %s: %w", code, err)
	}

	a, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListTransactions loads raw sales rows on or after since.
func (r *ArticleRepository) ListTransactions(ctx context.Context, since time.Time) ([]trend.Transaction, error) {
	query := `
		SELECT article_code, sold_at, qty,
		       COALESCE(client_tag, '') AS client_tag,
		       COALESCE(client_id, '') AS client_id
		FROM transactions
		WHERE sold_at >= $1
		ORDER BY sold_at`

	var txs []trend.Transaction
	if err := r.db.SelectContext(ctx, &txs, query, since); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return txs, nil
}

// SaveComputed replaces the computed record set in one transaction. Every
// stored segment is reset first so recomputation fully regenerates the
// outputs and a stale CRITICAL can never survive a fresh run.
func (r *ArticleRepository) SaveComputed(ctx context.Context, records []domain.ComputedArticle) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			UPDATE articles SET
				segment = NULL,
				suggested_qty = 0,
				avg_daily_sales = 0,
				days_of_coverage = 0`); err != nil {
			return fmt.Errorf("failed to reset computed fields: %w", err)
		}

		stmt, err := tx.PrepareNamedContext(ctx, `
			UPDATE articles SET
				avg_daily_sales = :avg_daily_sales,
				days_of_coverage = :days_of_coverage,
				segment = :segment,
				suggested_qty = :suggested_qty,
				sell_out_velocity = :sell_out_velocity,
				sales_last_3m = :sales_last_3m,
				seasonality_index = :seasonality_index,
				is_rising_star = :is_rising_star,
				trend = :trend,
				yoy_growth = :yoy_growth,
				acceleration = :acceleration,
				volatility = :volatility,
				repeat_rate = :repeat_rate,
				avg_orders_per_client = :avg_orders_per_client,
				unique_clients = :unique_clients,
				peak_month = :peak_month,
				peak_month_pct = :peak_month_pct,
				updated_at = NOW()
			WHERE code = :code`)
		if err != nil {
			return fmt.Errorf("failed to prepare computed update: %w", err)
		}
		defer stmt.Close()

		for i := range records {
			if _, err := stmt.ExecContext(ctx, &records[i]); err != nil {
				return fmt.Errorf("failed to save computed record %s: %w", records[i].Code, err)
			}
		}

		return nil
	})
}

// ListComputed returns stored computed records for a filter, newest-urgency
// first, plus the unpaginated total.
func (r *ArticleRepository) ListComputed(ctx context.Context, filter domain.ArticleFilter) ([]domain.ComputedArticle, int, error) {
	where, args := buildFilter(filter)

	countQuery := `SELECT COUNT(*) FROM articles ` + where
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count computed records: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 50
	}

	query := `
		SELECT code, name, supplier,
		       COALESCE(avg_daily_sales, 0) AS avg_daily_sales,
		       COALESCE(days_of_coverage, 0) AS days_of_coverage,
		       COALESCE(segment, 'OK') AS segment,
		       COALESCE(suggested_qty, 0) AS suggested_qty,
		       COALESCE(sell_out_velocity, 1) AS sell_out_velocity,
		       COALESCE(sales_last_3m, 0) AS sales_last_3m,
		       (stock_available + stock_in_transit) * cost AS stock_value,
		       COALESCE(seasonality_index, 1) AS seasonality_index,
		       COALESCE(is_rising_star, FALSE) AS is_rising_star,
		       COALESCE(trend, 'STABLE') AS trend,
		       COALESCE(yoy_growth, 0) AS yoy_growth,
		       COALESCE(acceleration, 0) AS acceleration,
		       COALESCE(volatility, 1) AS volatility,
		       COALESCE(repeat_rate, 0) AS repeat_rate,
		       COALESCE(avg_orders_per_client, 0) AS avg_orders_per_client,
		       COALESCE(unique_clients, 0) AS unique_clients,
		       COALESCE(peak_month, 0) AS peak_month,
		       COALESCE(peak_month_pct, 0) AS peak_month_pct
		FROM articles ` + where + `
		ORDER BY CASE COALESCE(segment, 'OK')
			WHEN 'CRITICAL' THEN 0
			WHEN 'URGENT' THEN 1
			WHEN 'ATTENTION' THEN 2
			WHEN 'OK' THEN 3
			ELSE 4 END, code
		LIMIT ` + fmt.Sprintf("%d OFFSET %d", pageSize, (page-1)*pageSize)

	var records []domain.ComputedArticle
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list computed records: %w", err)
	}

	return records, total, nil
}

// SegmentSummary counts articles per segment for a filter slice.
func (r *ArticleRepository) SegmentSummary(ctx context.Context, filter domain.ArticleFilter) ([]domain.SegmentSummary, error) {
	where, args := buildFilter(filter)

	query := `
		SELECT COALESCE(segment, 'OK') AS segment, COUNT(*) AS count
		FROM articles ` + where + `
		GROUP BY COALESCE(segment, 'OK')
		ORDER BY COALESCE(segment, 'OK')`

	var summaries []domain.SegmentSummary
	if err := r.db.SelectContext(ctx, &summaries, query, args...); err != nil {
		return nil, fmt.Errorf("failed to build segment summary: %w", err)
	}

	return summaries, nil
}

func buildFilter(filter domain.ArticleFilter) (string, []interface{}) {
	clauses := []string{}
	args := []interface{}{}

	if s := strings.TrimSpace(filter.Segment); s != "" {
		args = append(args, strings.ToUpper(s))
		clauses = append(clauses, fmt.Sprintf("segment = $%d", len(args)))
	}
	if s := strings.TrimSpace(filter.Supplier); s != "" {
		args = append(args, s)
		clauses = append(clauses, fmt.Sprintf("supplier = $%d", len(args)))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}
