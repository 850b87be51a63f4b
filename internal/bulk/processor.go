// Package bulk implements the CSV bulk-operation processor (spec §4.G): it
// parses a tabular instruction file and drives the engine once per row,
// isolating each row's failure so one bad line never aborts the batch.
//
// Resolving a national ID to a user and checking KYC/role state are
// explicitly external collaborators (spec §1, §6) — this package never
// implements identity verification itself. Callers inject a Directory.
package bulk

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"corebank/internal/domain/money"
	"corebank/internal/engine"
	"corebank/internal/logging"
	"corebank/internal/telemetry"
)

// MaxFileSizeBytes bounds the input stream (spec §4.G).
const MaxFileSizeBytes = 5 * 1024 * 1024

const expectedHeader = "nationalidamountoperation"

// Operation is the row-level instruction kind.
type Operation string

const (
	OperationDeposit  Operation = "DEPOSIT"
	OperationWithdraw Operation = "WITHDRAW"
)

// KYCStatus mirrors the external collaborator's verification state, only
// as far as bulk processing needs to know about it.
type KYCStatus string

const KYCVerified KYCStatus = "VERIFIED"

// ResolvedUser is what the Directory collaborator returns for a national ID.
type ResolvedUser struct {
	UserID               uuid.UUID
	KYCStatus            KYCStatus
	ActiveCheckingID     uuid.UUID // zero value if the user has no Active Checking account
	ActiveCheckingNumber string    // "" if the user has no Active Checking account
}

// Directory resolves a national ID to the user/account facts a bulk row
// needs. Implemented by whatever identity/account-directory component the
// surrounding system provides; bulk only ever reads through it.
type Directory interface {
	ResolveByNationalID(ctx context.Context, nationalID string) (*ResolvedUser, error)
}

// RowResult is the per-row outcome reported in Summary.
type RowResult struct {
	Row           int       `json:"row"`
	NationalID    string    `json:"national_id"`
	Amount        string    `json:"amount"`
	Operation     Operation `json:"operation"`
	Success       bool      `json:"success"`
	Error         string    `json:"error,omitempty"`
	AccountNumber string    `json:"account_number,omitempty"`
	Balance       string    `json:"balance,omitempty"`
}

// Summary is the full batch result returned to the caller.
type Summary struct {
	Total        int         `json:"total"`
	SuccessCount int         `json:"success_count"`
	FailureCount int         `json:"failure_count"`
	Results      []RowResult `json:"results"`
}

// Processor drives rows of a CSV instruction file through an engine.
type Processor struct {
	Engine    *engine.Engine
	Directory Directory
	Now       func() time.Time
}

func New(eng *engine.Engine, dir Directory) *Processor {
	return &Processor{Engine: eng, Directory: dir, Now: time.Now}
}

func (p *Processor) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// Process parses data (UTF-8 CSV text, header row `NationalId,Amount,Operation`)
// and invokes the engine once per data row. filename feeds the deterministic
// per-row operation key `CSV-{filename}-{row}-{timestamp}`.
func (p *Processor) Process(ctx context.Context, data []byte, filename string) (*Summary, error) {
	if len(data) > MaxFileSizeBytes {
		return nil, fmt.Errorf("bulk: input exceeds maximum size of %d bytes", MaxFileSizeBytes)
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), MaxFileSizeBytes)

	headerSeen := false
	rowNum := 0
	timestamp := p.now().UTC().Format("20060102T150405.000000000Z")
	summary := &Summary{}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !headerSeen {
			if normalizeHeader(line) != expectedHeader {
				return nil, fmt.Errorf("bulk: unrecognized header %q", line)
			}
			headerSeen = true
			continue
		}

		rowNum++
		result := p.processRow(ctx, rowNum, line, filename, timestamp)
		summary.Results = append(summary.Results, result)
		summary.Total++
		if result.Success {
			summary.SuccessCount++
			telemetry.RecordBulkRow("success")
		} else {
			summary.FailureCount++
			telemetry.RecordBulkRow("failed")
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("bulk: reading input: %w", err)
	}
	if !headerSeen {
		return nil, fmt.Errorf("bulk: input has no header row")
	}
	if summary.Total == 0 {
		return nil, fmt.Errorf("bulk: input has no data rows")
	}

	logging.Info("bulk batch processed", map[string]any{
		"filename":      filename,
		"total":         summary.Total,
		"success_count": summary.SuccessCount,
		"failure_count": summary.FailureCount,
	})
	return summary, nil
}

// processRow implements the per-row steps of spec §4.G: parse, resolve,
// invoke, and isolate any engine error as a row failure rather than an
// aborted batch.
func (p *Processor) processRow(ctx context.Context, row int, line, filename, timestamp string) RowResult {
	fields := strings.Split(line, ",")
	result := RowResult{Row: row}
	if len(fields) < 3 {
		result.Error = "expected 3 fields: national id, amount, operation"
		return result
	}

	nationalID := strings.TrimSpace(fields[0])
	amountStr := strings.TrimSpace(fields[1])
	opStr := strings.ToUpper(strings.TrimSpace(fields[2]))

	result.NationalID = nationalID
	result.Amount = amountStr
	result.Operation = Operation(opStr)

	if opStr != string(OperationDeposit) && opStr != string(OperationWithdraw) {
		result.Error = fmt.Sprintf("unrecognized operation %q; expected DEPOSIT or WITHDRAW", opStr)
		return result
	}

	amount, err := money.FromString(amountStr)
	if err != nil || !amount.IsPositive() {
		result.Error = fmt.Sprintf("invalid amount %q: must be a positive decimal", amountStr)
		return result
	}

	user, err := p.Directory.ResolveByNationalID(ctx, nationalID)
	if err != nil || user == nil {
		result.Error = "no user found for this national id"
		return result
	}
	if user.KYCStatus != KYCVerified {
		result.Error = "user KYC is not verified"
		return result
	}
	if user.ActiveCheckingNumber == "" {
		result.Error = "user has no active checking account"
		return result
	}

	operationKey := fmt.Sprintf("CSV-%s-%d-%s", filename, row, timestamp)
	description := fmt.Sprintf("bulk %s row %d of %s", opStr, row, filename)

	var balance money.Amount
	switch Operation(opStr) {
	case OperationDeposit:
		dep, engErr := p.Engine.Deposit(ctx, user.UserID, user.ActiveCheckingID, amount, operationKey, description)
		if engErr != nil {
			result.Error = engErr.Message
			return result
		}
		balance = dep.Balance
	case OperationWithdraw:
		wd, engErr := p.Engine.Withdraw(ctx, user.UserID, user.ActiveCheckingID, amount, operationKey, description)
		if engErr != nil {
			result.Error = engErr.Message
			return result
		}
		balance = wd.Balance
	}

	result.Success = true
	result.AccountNumber = user.ActiveCheckingNumber
	result.Balance = balance.String()
	return result
}

func normalizeHeader(line string) string {
	var b strings.Builder
	for _, f := range strings.Split(line, ",") {
		for _, r := range strings.ToLower(f) {
			if r != ' ' && r != '\t' {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}
