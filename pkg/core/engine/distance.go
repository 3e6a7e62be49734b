package engine

import (
	"math"
	"sync"

	"github.com/vavive/rotas/pkg/core/model"
)

const earthRadiusKm = 6371.0

// distanceShards is the number of client shards the index build fans out to
const distanceShards = 8

// DistanceIndex maps (client tax ID, professional ID) to great-circle
// kilometers rounded to 2 decimals. Pairs with a missing coordinate on
// either side are absent. Read-only once built.
type DistanceIndex struct {
	byPair map[pairKey]float64
}

type pairKey struct {
	clientTaxID    string
	professionalID string
}

// BuildDistanceIndex computes all client-professional distances, sharding the
// client table across workers. The merged index is immutable afterwards.
func BuildDistanceIndex(clients []model.Client, professionals []model.Professional) *DistanceIndex {
	located := make([]model.Professional, 0, len(professionals))
	for _, p := range professionals {
		if p.Coord != nil {
			located = append(located, p)
		}
	}

	type shardResult map[pairKey]float64

	shards := distanceShards
	if len(clients) < shards {
		shards = len(clients)
	}
	if shards == 0 {
		return &DistanceIndex{byPair: map[pairKey]float64{}}
	}

	results := make([]shardResult, shards)
	var wg sync.WaitGroup
	for s := 0; s < shards; s++ {
		wg.Add(1)
		go func(shard int) {
			defer wg.Done()
			out := make(shardResult)
			for i := shard; i < len(clients); i += shards {
				c := clients[i]
				if c.Coord == nil {
					continue
				}
				for _, p := range located {
					out[pairKey{c.TaxID, p.ID}] = roundKm(haversineKm(*c.Coord, *p.Coord))
				}
			}
			results[shard] = out
		}(s)
	}
	wg.Wait()

	merged := make(map[pairKey]float64)
	for _, out := range results {
		for k, v := range out {
			merged[k] = v
		}
	}
	return &DistanceIndex{byPair: merged}
}

// Km returns the distance for a pair, or ok=false when either side had no
// coordinates. Callers treat absence as "ineligible; infinite distance".
func (idx *DistanceIndex) Km(clientTaxID, professionalID string) (float64, bool) {
	d, ok := idx.byPair[pairKey{clientTaxID, professionalID}]
	return d, ok
}

// Len returns the number of computed pairs
func (idx *DistanceIndex) Len() int {
	return len(idx.byPair)
}

// haversineKm computes the great-circle distance between two points
func haversineKm(a, b model.Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

func roundKm(km float64) float64 {
	return math.Round(km*100) / 100
}
