package trend

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const retailTag = "Vanzari Magazin_Client Final"

func tx(code, date string, qty float64, tag, client string) Transaction {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		panic(err)
	}
	return Transaction{ArticleCode: code, Date: d, Qty: qty, ClientTag: tag, ClientID: client}
}

func TestParseTransaction(t *testing.T) {
	got, err := ParseTransaction("A-1001", "15.03.2025", "2,500", retailTag, "C-9")
	require.NoError(t, err)
	assert.Equal(t, "A-1001", got.ArticleCode)
	assert.Equal(t, time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), got.Date)
	assert.Equal(t, 2500.0, got.Qty)
	assert.Equal(t, "C-9", got.ClientID)

	_, err = ParseTransaction("", "15.03.2025", "1", retailTag, "")
	assert.Error(t, err, "missing article code")

	_, err = ParseTransaction("A-1001", "2025-03-15", "1", retailTag, "")
	assert.Error(t, err, "wrong date layout")

	_, err = ParseTransaction("A-1001", "15.03.2025", "two", retailTag, "")
	assert.Error(t, err, "non-numeric quantity")
}

func TestAggregateChannelFilter(t *testing.T) {
	rows := []Transaction{
		tx("A-1001", "10.01.2025", 3, retailTag, "C-1"),
		tx("A-1001", "20.01.2025", 2, retailTag, "C-2"),
		tx("A-1001", "05.02.2025", 4, retailTag, "C-1"),
		tx("A-1001", "06.02.2025", 10, "Vanzari B2B", "C-3"),
		tx("A-2002", "06.02.2025", 7, "Vanzari B2B", "C-3"),
	}

	h := Aggregate(rows, AggregateConfig{ChannelTag: retailTag, Policy: PolicyStrict})

	require.Equal(t, 1, h.Len(), "wholesale-only article must not appear")
	series := h.Series("A-1001")
	assert.Equal(t, 5.0, series["2025-01"])
	assert.Equal(t, 4.0, series["2025-02"])

	clients := h.Clients("A-1001")
	assert.Equal(t, 2, clients["C-1"])
	assert.Equal(t, 1, clients["C-2"])
	assert.Nil(t, h.Series("A-2002"))
}

func TestAggregateUntaggedRows(t *testing.T) {
	rows := []Transaction{
		tx("A-1001", "10.01.2025", 3, retailTag, ""),
		tx("A-1001", "11.01.2025", 2, "", ""),
	}

	strict := Aggregate(rows, AggregateConfig{ChannelTag: retailTag, Policy: PolicyStrict})
	assert.Equal(t, 3.0, strict.Series("A-1001")["2025-01"])

	legacy := Aggregate(rows, AggregateConfig{ChannelTag: retailTag, Policy: PolicyLegacyInclude})
	assert.Equal(t, 5.0, legacy.Series("A-1001")["2025-01"])
}

func TestLastCompleteMonths(t *testing.T) {
	rows := []Transaction{
		tx("A-1001", "05.03.2025", 10, retailTag, ""),
		tx("A-1001", "05.04.2025", 20, retailTag, ""),
		tx("A-1001", "05.05.2025", 30, retailTag, ""),
		// The reference month itself is still running and must not count.
		tx("A-1001", "05.06.2025", 99, retailTag, ""),
	}
	h := Aggregate(rows, AggregateConfig{ChannelTag: retailTag, Policy: PolicyStrict})

	ref := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 60.0, h.LastCompleteMonths("A-1001", 3, ref))
	assert.Equal(t, 50.0, h.LastCompleteMonths("A-1001", 2, ref))
	assert.Equal(t, 0.0, h.LastCompleteMonths("A-9999", 3, ref))
}

// A month-end reference date must not skip short months.
func TestLastCompleteMonthsMonthEnd(t *testing.T) {
	rows := []Transaction{
		tx("A-1001", "10.02.2025", 10, retailTag, ""),
	}
	h := Aggregate(rows, AggregateConfig{ChannelTag: retailTag, Policy: PolicyStrict})

	ref := time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 10.0, h.LastCompleteMonths("A-1001", 1, ref))
}

func TestYearTotal(t *testing.T) {
	rows := []Transaction{
		tx("A-1001", "10.01.2024", 5, retailTag, ""),
		tx("A-1001", "10.12.2024", 7, retailTag, ""),
		tx("A-1001", "10.01.2025", 100, retailTag, ""),
	}
	h := Aggregate(rows, AggregateConfig{ChannelTag: retailTag, Policy: PolicyStrict})

	assert.Equal(t, 12.0, h.YearTotal("A-1001", 2024))
	assert.Equal(t, 100.0, h.YearTotal("A-1001", 2025))
	assert.Equal(t, 0.0, h.YearTotal("A-1001", 2023))
}
