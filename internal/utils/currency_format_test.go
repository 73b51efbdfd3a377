package utils_test

import (
	"testing"
	"time"

	"github.com/SscSPs/bizos_backend/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "R$ 1.234,56", utils.FormatCurrency(decimal.RequireFromString("1234.56")))
	assert.Equal(t, "-R$ 10,00", utils.FormatCurrency(decimal.NewFromInt(-10)))
	assert.Equal(t, "+R$ 0,50", utils.FormatSignedCurrency(decimal.RequireFromString("0.5")))
}

func TestPeriodLabelAndSlug(t *testing.T) {
	label := utils.PeriodLabel(2026, time.October)
	assert.Equal(t, "outubro de 2026", label)
	assert.Equal(t, "outubro-de-2026", utils.Slugify(label))
	assert.Equal(t, "março-de-2025", utils.Slugify(utils.PeriodLabel(2025, time.March)))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "05/10/2026", utils.FormatDate(time.Date(2026, time.October, 5, 13, 0, 0, 0, time.UTC)))
}
