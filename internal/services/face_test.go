package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ivanjaven/extension/types"
)

type fakeDescriptorSource struct {
	records []types.FaceRecord
	err     error
}

func (f *fakeDescriptorSource) ListFaceDescriptors(context.Context) ([]types.FaceRecord, error) {
	return f.records, f.err
}

func TestMatchPicksNearestUnderThreshold(t *testing.T) {
	source := &fakeDescriptorSource{records: []types.FaceRecord{
		{ResidentID: 1, Descriptor: `[0.9, 0.9, 0.9]`},
		{ResidentID: 2, Descriptor: `[0.1, 0.1, 0.1]`},
		{ResidentID: 3, Descriptor: `[0.2, 0.2, 0.2]`},
	}}
	svc := NewFaceService(source)

	id, ok, err := svc.Match(context.Background(), []float64{0.12, 0.12, 0.12})
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if !ok || id != 2 {
		t.Fatalf("expected resident 2, got id=%d ok=%v", id, ok)
	}
}

func TestMatchRejectsDistancesOverThreshold(t *testing.T) {
	// Nearest candidate sits at distance ~0.61, just over the 0.5 cutoff.
	source := &fakeDescriptorSource{records: []types.FaceRecord{
		{ResidentID: 1, Descriptor: `[0.61, 0.0, 0.0]`},
		{ResidentID: 2, Descriptor: `[1.5, 1.5, 1.5]`},
	}}
	svc := NewFaceService(source)

	id, ok, err := svc.Match(context.Background(), []float64{0, 0, 0})
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if ok {
		t.Fatalf("expected no match, got resident %d", id)
	}
}

func TestMatchSkipsUnusableRecords(t *testing.T) {
	source := &fakeDescriptorSource{records: []types.FaceRecord{
		{ResidentID: 1, Descriptor: `not json`},
		{ResidentID: 2, Descriptor: `[0.1, 0.1]`}, // wrong length
		{ResidentID: 3, Descriptor: `[0.1, 0.1, 0.1]`},
	}}
	svc := NewFaceService(source)

	id, ok, err := svc.Match(context.Background(), []float64{0.1, 0.1, 0.1})
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if !ok || id != 3 {
		t.Fatalf("expected resident 3, got id=%d ok=%v", id, ok)
	}
}

func TestMatchParsesIndexKeyedDescriptors(t *testing.T) {
	source := &fakeDescriptorSource{records: []types.FaceRecord{
		{ResidentID: 5, Descriptor: `{"0": 0.3, "1": 0.3, "2": 0.3}`},
	}}
	svc := NewFaceService(source)

	id, ok, err := svc.Match(context.Background(), []float64{0.3, 0.3, 0.3})
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if !ok || id != 5 {
		t.Fatalf("expected resident 5, got id=%d ok=%v", id, ok)
	}
}

func TestMatchPropagatesSourceErrors(t *testing.T) {
	source := &fakeDescriptorSource{err: errors.New("query failed")}
	svc := NewFaceService(source)

	if _, _, err := svc.Match(context.Background(), []float64{0.1}); err == nil {
		t.Fatalf("expected source error to propagate")
	}
}

func TestMatchEmptyEnrollment(t *testing.T) {
	svc := NewFaceService(&fakeDescriptorSource{})

	_, ok, err := svc.Match(context.Background(), []float64{0.1, 0.2})
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if ok {
		t.Fatalf("expected no match against empty enrollment")
	}
}
