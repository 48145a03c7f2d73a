/*
Copyright 2025 Recon Labs Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package recon

import (
	"context"

	"github.com/reconlabs/recon/config"
	"github.com/reconlabs/recon/internal/apierror"
	"github.com/reconlabs/recon/model"
	"github.com/shopspring/decimal"
)

// MatchingConfig carries the knobs of the match engine. It is resolved
// once at service construction and injected into each ingestion run, so
// a run never observes a mid-flight configuration change.
type MatchingConfig struct {
	TolerancePercent decimal.Decimal
	BatchSize        int
}

// NewMatchingConfig snapshots the matching parameters from the loaded
// configuration.
func NewMatchingConfig(conf *config.Configuration) MatchingConfig {
	return MatchingConfig{
		TolerancePercent: decimal.NewFromFloat(conf.Reconciliation.TolerancePercent),
		BatchSize:        conf.Reconciliation.BatchSize,
	}
}

// ReferenceLookup is the slice of the datasource the match engine needs.
type ReferenceLookup interface {
	FindByTransactionIDAndAmount(ctx context.Context, transactionID string, amount decimal.Decimal) (*model.ReferenceRecord, error)
	FindByReferenceNumber(ctx context.Context, referenceNumber string) (*model.ReferenceRecord, error)
}

// MatchEngine classifies submitted records against the reference ledger.
// It is stateless; all lookup state lives behind the repository.
type MatchEngine struct {
	lookup    ReferenceLookup
	tolerance decimal.Decimal
}

func NewMatchEngine(lookup ReferenceLookup, conf MatchingConfig) *MatchEngine {
	return &MatchEngine{lookup: lookup, tolerance: conf.TolerancePercent}
}

// Classify determines the verdict for a single record. Classification is
// strictly ordered: an exact hit on transaction id and amount wins, then
// a reference-number hit within tolerance, then not matched. A record
// without a transaction id is never looked up and classifies as not
// matched. Lookup failures other than a plain miss are returned to the
// caller; they indicate the reference store is unavailable, not that the
// record failed to match.
func (e *MatchEngine) Classify(ctx context.Context, record *model.SubmittedRecord) (string, []string, error) {
	if record.TransactionID == nil || *record.TransactionID == "" {
		return model.VerdictNotMatched, nil, nil
	}

	if record.Amount != nil {
		_, err := e.lookup.FindByTransactionIDAndAmount(ctx, *record.TransactionID, *record.Amount)
		if err == nil {
			return model.VerdictMatched, nil, nil
		}
		if !apierror.IsCode(err, apierror.ErrNotFound) {
			return "", nil, err
		}
	}

	if record.ReferenceNumber != nil && *record.ReferenceNumber != "" {
		candidate, err := e.lookup.FindByReferenceNumber(ctx, *record.ReferenceNumber)
		if err != nil {
			if apierror.IsCode(err, apierror.ErrNotFound) {
				return model.VerdictNotMatched, nil, nil
			}
			return "", nil, err
		}
		if amountWithinVariance(record.Amount, candidate.Amount, e.tolerance) {
			return model.VerdictPartiallyMatched, mismatchFields(record, candidate), nil
		}
	}

	return model.VerdictNotMatched, nil, nil
}

// amountWithinVariance reports whether amount deviates from the reference
// amount by at most tolerancePercent of the reference's magnitude. The
// bound is inclusive. A nil amount never falls within tolerance.
func amountWithinVariance(amount *decimal.Decimal, reference decimal.Decimal, tolerancePercent decimal.Decimal) bool {
	if amount == nil {
		return false
	}
	allowed := reference.Abs().Mul(tolerancePercent).Div(decimal.NewFromInt(100))
	return amount.Sub(reference).Abs().LessThanOrEqual(allowed)
}

// mismatchFields lists the canonical fields on which a partial match
// still disagrees with its reference candidate.
func mismatchFields(record *model.SubmittedRecord, candidate *model.ReferenceRecord) []string {
	var fields []string
	if record.Amount != nil && !record.Amount.Equal(candidate.Amount) {
		fields = append(fields, "amount")
	}
	if record.TransactionID != nil && *record.TransactionID != candidate.TransactionID {
		fields = append(fields, "transactionId")
	}
	return fields
}
