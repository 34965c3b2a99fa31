package trend

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the day-month-year format transaction exports use.
const DateLayout = "02.01.2006"

// Transaction is one raw sales row: an article sold on a date through a
// sales channel, optionally tied to a client.
type Transaction struct {
	ArticleCode string    `db:"article_code"`
	Date        time.Time `db:"sold_at"`
	Qty         float64   `db:"qty"`
	ClientTag   string    `db:"client_tag"`
	ClientID    string    `db:"client_id"`
}

// ParseTransaction converts one exported record into a Transaction. A row
// with a missing article code, an unparsable date or a non-numeric quantity
// is malformed; the caller skips it and keeps going.
func ParseTransaction(code, date, qty, clientTag, clientID string) (Transaction, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Transaction{}, fmt.Errorf("transaction row missing article code")
	}

	d, err := time.Parse(DateLayout, strings.TrimSpace(date))
	if err != nil {
		return Transaction{}, fmt.Errorf("transaction %s: bad date %q: %w", code, date, err)
	}

	q, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(qty), ",", ""), 64)
	if err != nil {
		return Transaction{}, fmt.Errorf("transaction %s: bad quantity %q: %w", code, qty, err)
	}

	return Transaction{
		ArticleCode: code,
		Date:        d,
		Qty:         q,
		ClientTag:   strings.TrimSpace(clientTag),
		ClientID:    strings.TrimSpace(clientID),
	}, nil
}
