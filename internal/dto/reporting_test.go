package dto_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/sahelexpress/colis_backend/internal/core/domain"
	"github.com/sahelexpress/colis_backend/internal/dto"
)

func TestToPointDeCaisseResponse_FormatsDay(t *testing.T) {
	point := domain.PointDeCaisse{
		RegisterID:    "reg-1",
		Day:           time.Date(2026, 8, 29, 14, 30, 0, 0, time.UTC),
		Entrees:       decimal.NewFromInt(50000),
		Sorties:       decimal.NewFromInt(12000),
		MovementCount: 7,
		Solde:         decimal.NewFromInt(138000),
	}

	resp := dto.ToPointDeCaisseResponse(&point)

	assert.Equal(t, "2026-08-29", resp.Day)
	assert.True(t, resp.Entrees.Equal(decimal.NewFromInt(50000)))
	assert.True(t, resp.Sorties.Equal(decimal.NewFromInt(12000)))
	assert.Equal(t, 7, resp.MovementCount)
}

func TestToGrandesLignesResponse_IncludesTotalEntrees(t *testing.T) {
	lignes := domain.GrandesLignes{
		RegisterID:           "reg-1",
		From:                 time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		To:                   time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC),
		TotalAppro:           decimal.NewFromInt(100000),
		TotalDecaissement:    decimal.NewFromInt(40000),
		TotalEntreesCheque:   decimal.NewFromInt(15000),
		TotalEntreesEspece:   decimal.NewFromInt(25000),
		TotalEntreesVirement: decimal.NewFromInt(10000),
		SoldeInitial:         decimal.NewFromInt(5000),
		SoldeFinal:           decimal.NewFromInt(115000),
	}

	resp := dto.ToGrandesLignesResponse(&lignes)

	assert.Equal(t, "2026-08-01", resp.From)
	assert.Equal(t, "2026-08-31", resp.To)
	assert.True(t, resp.TotalEntrees.Equal(decimal.NewFromInt(50000)))
	assert.True(t, resp.SoldeFinal.Equal(lignes.ClosingBalance()))
}
