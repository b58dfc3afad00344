package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when a nil meter is passed to NewBusinessMetrics.
var ErrMeterNil = errors.New("meter cannot be nil")

// BusinessMetrics tracks storefront activity: cart sync health and the
// vendor onboarding pipeline.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	cartSyncTotal         *Counter
	cartSyncDegradedTotal *Counter
	cartWriteFailureTotal *Counter
	vendorRequestTotal    *Counter
	vendorDecisionTotal   *Counter
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(meter metric.Meter, logger *zap.Logger) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:  meter,
		logger: logger,
	}

	var err error
	if bm.cartSyncTotal, err = NewCounter(meter,
		"cart_sync_total",
		"Total number of cart sync sessions initialized, by source of truth",
		"{session}"); err != nil {
		return nil, err
	}
	if bm.cartSyncDegradedTotal, err = NewCounter(meter,
		"cart_sync_degraded_total",
		"Cart sync sessions that fell back to the local tier after a remote failure",
		"{session}"); err != nil {
		return nil, err
	}
	if bm.cartWriteFailureTotal, err = NewCounter(meter,
		"cart_write_failure_total",
		"Cart mutations rejected because both storage tiers were unavailable",
		"{mutation}"); err != nil {
		return nil, err
	}
	if bm.vendorRequestTotal, err = NewCounter(meter,
		"vendor_request_total",
		"Total number of vendor onboarding requests submitted",
		"{request}"); err != nil {
		return nil, err
	}
	if bm.vendorDecisionTotal, err = NewCounter(meter,
		"vendor_decision_total",
		"Total number of vendor request decisions, by decision",
		"{decision}"); err != nil {
		return nil, err
	}

	return bm, nil
}

// RecordCartSync records a completed cart load pinned to the given source
func (bm *BusinessMetrics) RecordCartSync(ctx context.Context, source string, degraded bool) {
	bm.cartSyncTotal.Inc(ctx, AttrCartSource.String(source))
	if degraded {
		bm.cartSyncDegradedTotal.Inc(ctx, AttrCartSource.String(source))
	}
}

// RecordCartWriteFailure records a mutation lost to a dual-tier outage
func (bm *BusinessMetrics) RecordCartWriteFailure(ctx context.Context) {
	bm.cartWriteFailureTotal.Inc(ctx)
}

// RecordVendorRequest records a newly submitted vendor request
func (bm *BusinessMetrics) RecordVendorRequest(ctx context.Context) {
	bm.vendorRequestTotal.Inc(ctx)
}

// RecordVendorDecision records an admin decision on a vendor request
func (bm *BusinessMetrics) RecordVendorDecision(ctx context.Context, decision string) {
	bm.vendorDecisionTotal.Inc(ctx, AttrDecision.String(decision))
}
