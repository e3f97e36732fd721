package service

import (
	"testing"
	"time"

	"github.com/segyhp/equipment-lease/internal/config"
	"github.com/segyhp/equipment-lease/internal/domain"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Env: "test"},
		Lease: config.LeaseConfig{
			RegeneratePolicy:        config.RegeneratePolicyDiscard,
			FailurePolicy:           config.FailurePolicyFailFast,
			LockTTL:                 "1m",
			CommissionItem:          "Platform Commission Income",
			RentIncomeAccount:       "5111 - Cost of Goods Sold - ES",
			CommissionIncomeAccount: "5202 - Commission on Sales - ES",
			Company:                 "Equipment Share",
			DefaultSupplier:         "Samy",
			SnowflakeNode:           1,
		},
	}
}

func testNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return node
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func scheduleRow(idx int, due time.Time, invoice, status string) *domain.PaymentScheduleRow {
	return &domain.PaymentScheduleRow{
		ID:                       uuid.New(),
		ContractName:             "ELC-1",
		Idx:                      idx,
		DueDate:                  due,
		Amount:                   decimal.NewFromInt(1000),
		PlatformCommissionAmount: decimal.NewFromInt(100),
		OwnerAmount:              decimal.NewFromInt(900),
		Status:                   status,
		Invoice:                  invoice,
	}
}

func submittedContract(name string, rows ...*domain.PaymentScheduleRow) *domain.LeaseContract {
	for _, row := range rows {
		row.ContractName = name
	}
	return &domain.LeaseContract{
		Name:            name,
		Lessee:          "Acme Builders",
		LeasedEquipment: "EXC-01",
		RentItem:        "EXC-01-RENT",
		BillingCycle:    domain.BillingCycleMonthly,
		DocStatus:       domain.DocStatusSubmitted,
		Version:         3,
		Schedule:        rows,
	}
}
