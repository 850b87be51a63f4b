package kafka

// Topic names for ledger events.
const (
	TopicDeposits       = "ledger.transactions.deposit"
	TopicWithdrawals    = "ledger.transactions.withdrawal"
	TopicTransfers      = "ledger.transactions.transfer"
	TopicReconciliation = "ledger.reconciliation.mismatch"
)

// AllTopics returns every topic this producer publishes to.
func AllTopics() []string {
	return []string{TopicDeposits, TopicWithdrawals, TopicTransfers, TopicReconciliation}
}
