package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the domain-level Prometheus metrics. HTTP request metrics
// live in the middleware package.
type Metrics struct {
	// Transaction metrics
	TransactionsCreated prometheus.Counter
	TransactionsEdited  prometheus.Counter
	TransactionsVoided  prometheus.Counter
	OptimisticConflicts prometheus.Counter

	// Account metrics
	AccountsCreated      prometheus.Counter
	BalanceDiscrepancies prometheus.Counter
	BalanceRepairs       prometheus.Counter

	// Bill metrics
	BillsCreated   prometheus.Counter
	PaymentsLinked prometheus.Counter

	// Reconciliation metrics
	StatementsImported  prometheus.Counter
	StatementsCompleted prometheus.Counter
	LinesMatched        *prometheus.CounterVec
	LinesConfirmed      prometheus.Counter
	LinesSkipped        prometheus.Counter

	// Database metrics
	DBConnections prometheus.Gauge
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		TransactionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_transactions_created_total",
			Help: "Total number of transactions created",
		}),
		TransactionsEdited: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_transactions_edited_total",
			Help: "Total number of transaction edits committed",
		}),
		TransactionsVoided: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_transactions_voided_total",
			Help: "Total number of transactions voided",
		}),
		OptimisticConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_optimistic_conflicts_total",
			Help: "Total number of concurrent modification conflicts",
		}),

		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		BalanceDiscrepancies: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_balance_discrepancies_total",
			Help: "Total balance verifications that found a discrepancy",
		}),
		BalanceRepairs: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_balance_repairs_total",
			Help: "Total balance cache repairs",
		}),

		BillsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_bills_created_total",
			Help: "Total number of bills created",
		}),
		PaymentsLinked: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_bill_payments_linked_total",
			Help: "Total payment transactions linked to bills",
		}),

		StatementsImported: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_statements_imported_total",
			Help: "Total bank statements imported",
		}),
		StatementsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_statements_completed_total",
			Help: "Total reconciliations completed",
		}),
		LinesMatched: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_lines_matched_total",
				Help: "Total statement lines matched by match type",
			},
			[]string{"match_type"},
		),
		LinesConfirmed: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_lines_confirmed_total",
			Help: "Total statement lines confirmed",
		}),
		LinesSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "ledger_lines_skipped_total",
			Help: "Total statement lines skipped",
		}),

		DBConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "ledger_db_connections",
			Help: "Current number of database connections",
		}),
	}
}
