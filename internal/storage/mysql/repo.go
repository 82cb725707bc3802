package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"hotel_pricing/internal/domain"
)

const dateLayout = "2006-01-02"

// valDate turns an empty wire date into NULL.
func valDate(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func fmtDate(t sql.NullTime) string {
	if !t.Valid {
		return ""
	}
	return t.Time.Format(dateLayout)
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// SavePricing replaces the hotel's window and price rows in one transaction.
func (r *Repo) SavePricing(ctx context.Context, hotelID int64, p domain.HotelPricingPayload) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, upsertAvailabilitySQL,
		hotelID,
		p.IsActive,
		valDate(p.AvailableStartDate),
		valDate(p.AvailableEndDate),
	); err != nil {
		return fmt.Errorf("upsert availability for %d: %w", hotelID, err)
	}
	if _, err = tx.ExecContext(ctx, deletePricesSQL, hotelID); err != nil {
		return fmt.Errorf("clear prices for %d: %w", hotelID, err)
	}

	if len(p.Prices) > 0 {
		values := make([]string, 0, len(p.Prices))
		args := make([]any, 0, len(p.Prices)*7) // 7 params per row
		for i, rec := range p.Prices {
			values = append(values, "(?,?,?,?,?,?,?)")
			args = append(args,
				hotelID,
				i,
				valDate(rec.StartDate),
				valDate(rec.EndDate),
				rec.RoomType,
				rec.Price,
				rec.IsSharingAllowed,
			)
		}
		if _, err = tx.ExecContext(ctx, insertPricesPrefix+strings.Join(values, ","), args...); err != nil {
			return fmt.Errorf("insert prices for %d: %w", hotelID, err)
		}
	}
	return tx.Commit()
}

func (r *Repo) GetPricing(ctx context.Context, hotelID int64) (domain.HotelPricingPayload, error) {
	var out domain.HotelPricingPayload
	var start, end sql.NullTime

	row := r.db.QueryRowContext(ctx, getAvailabilitySQL, hotelID)
	if err := row.Scan(&out.IsActive, &start, &end); err != nil {
		if err == sql.ErrNoRows {
			return domain.HotelPricingPayload{}, domain.ErrNotFound
		}
		return domain.HotelPricingPayload{}, err
	}
	out.AvailableStartDate = fmtDate(start)
	out.AvailableEndDate = fmtDate(end)

	rows, err := r.db.QueryContext(ctx, listPricesSQL, hotelID)
	if err != nil {
		return domain.HotelPricingPayload{}, err
	}
	defer rows.Close()

	out.Prices = []domain.FlatPriceRecord{}
	for rows.Next() {
		var rec domain.FlatPriceRecord
		var s, e sql.NullTime
		if err := rows.Scan(&s, &e, &rec.RoomType, &rec.Price, &rec.IsSharingAllowed); err != nil {
			return domain.HotelPricingPayload{}, err
		}
		rec.StartDate, rec.EndDate = fmtDate(s), fmtDate(e)
		out.Prices = append(out.Prices, rec)
	}
	return out, rows.Err()
}

// Ping is used by readiness checks.
func (r *Repo) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return r.db.PingContext(ctx)
}
