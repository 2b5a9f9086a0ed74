package services

import (
	"context"
	"encoding/json"
	"math"
	"strconv"

	"github.com/ivanjaven/extension/types"
)

// FaceMatchThreshold is the maximum Euclidean distance for a descriptor to be
// considered the same face. Lower means stricter matching.
const FaceMatchThreshold = 0.5

// DescriptorSource lists stored face descriptors for matching.
type DescriptorSource interface {
	ListFaceDescriptors(ctx context.Context) ([]types.FaceRecord, error)
}

// FaceService matches submitted face descriptors against enrolled residents.
type FaceService struct {
	source    DescriptorSource
	threshold float64
}

func NewFaceService(source DescriptorSource) *FaceService {
	return &FaceService{source: source, threshold: FaceMatchThreshold}
}

// Match returns the resident whose stored descriptor is nearest to the
// submitted one, provided that distance is under the threshold. The second
// return value is false when no eligible candidate exists. Records whose
// stored descriptor fails to parse are skipped, not fatal.
func (s *FaceService) Match(ctx context.Context, descriptor []float64) (int, bool, error) {
	records, err := s.source.ListFaceDescriptors(ctx)
	if err != nil {
		return 0, false, err
	}

	bestID := 0
	bestDistance := math.Inf(1)
	for _, record := range records {
		stored, ok := parseDescriptor(record.Descriptor)
		if !ok || len(stored) != len(descriptor) {
			continue
		}
		distance := euclideanDistance(descriptor, stored)
		if distance < s.threshold && distance < bestDistance {
			bestID = record.ResidentID
			bestDistance = distance
		}
	}

	if math.IsInf(bestDistance, 1) {
		return 0, false, nil
	}
	return bestID, true, nil
}

func euclideanDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// parseDescriptor accepts either a JSON array or the index-keyed object form
// some enrollment clients produce.
func parseDescriptor(raw string) ([]float64, bool) {
	var values []float64
	if err := json.Unmarshal([]byte(raw), &values); err == nil {
		return values, len(values) > 0
	}

	var keyed map[string]float64
	if err := json.Unmarshal([]byte(raw), &keyed); err != nil {
		return nil, false
	}
	values = make([]float64, len(keyed))
	for i := range values {
		value, ok := keyed[strconv.Itoa(i)]
		if !ok {
			return nil, false
		}
		values[i] = value
	}
	return values, len(values) > 0
}
