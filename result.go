package wordtable

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Result is the outcome of converting one document.
type Result struct {
	ID           string            `json:"id"`
	FilePath     string            `json:"filePath"`
	FileName     string            `json:"fileName"`
	FileSize     int64             `json:"fileSize"`
	Format       Format            `json:"format"`
	OutputFormat OutputFormat      `json:"outputFormat"`
	Content      string            `json:"content"`
	Tables       []string          `json:"tables,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
	Warnings     []string          `json:"warnings,omitempty"`
	Success      bool              `json:"success"`
	Error        string            `json:"error,omitempty"`
	Duration     time.Duration     `json:"durationNs"`
}

func newResult(path string) *Result {
	return &Result{
		ID:       uuid.NewString(),
		FilePath: path,
		FileName: filepath.Base(path),
		Format:   FormatUnknown,
	}
}

func (r *Result) ProcessingTimeMs() int64 {
	return r.Duration.Milliseconds()
}

func (r *Result) fail(err error) {
	r.Success = false
	r.Error = err.Error()
}

// BatchResult collects the results of ConvertBatch in input order.
type BatchResult struct {
	Results      []*Result
	Total        int
	SuccessCount int
	ErrorCount   int
	Duration     time.Duration
	// Err is the failure that stopped a FailFast batch.
	Err error
}

// SuccessRate returns the fraction of documents converted, 0 for an empty
// batch.
func (b *BatchResult) SuccessRate() float64 {
	if b.Total == 0 {
		return 0
	}
	return float64(b.SuccessCount) / float64(b.Total)
}

func (b *BatchResult) ErrorRate() float64 {
	if b.Total == 0 {
		return 0
	}
	return float64(b.ErrorCount) / float64(b.Total)
}

// AverageTime is the batch's wall time divided by its document count.
func (b *BatchResult) AverageTime() time.Duration {
	if b.Total == 0 {
		return 0
	}
	return b.Duration / time.Duration(b.Total)
}

func (b *BatchResult) AllSucceeded() bool {
	return b.ErrorCount == 0 && b.SuccessCount == b.Total
}

func (b *BatchResult) Summary() string {
	return fmt.Sprintf("Batch Processing Summary: %d total, %d success, %d errors (%.1f%% success rate), %.2f seconds",
		b.Total, b.SuccessCount, b.ErrorCount, b.SuccessRate()*100, b.Duration.Seconds())
}
