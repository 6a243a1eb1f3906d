package attractions

import (
	"math"
	"sort"
	"sync"

	"github.com/dhconnelly/rtreego"
	"github.com/google/uuid"

	"github.com/kazantrip/routegen/internal/api/generation"
	"github.com/kazantrip/routegen/internal/types"
)

const (
	indexTolerance   = 0.01
	indexDimensions  = 2
	indexMinChildren = 25
	indexMaxChildren = 50
	earthRadiusKm    = 6371.0
)

type spatialItem struct {
	attraction types.Attraction
	rect       *rtreego.Rect
}

func (si *spatialItem) Bounds() *rtreego.Rect {
	return si.rect
}

// GeoIndex is an R-tree over attraction coordinates. Queries run a
// bounding-box prefilter on the tree and then verify actual great-circle
// distance.
type GeoIndex struct {
	mu   sync.RWMutex
	tree *rtreego.Rtree
}

func NewGeoIndex() *GeoIndex {
	return &GeoIndex{
		tree: rtreego.NewTree(indexDimensions, indexMinChildren, indexMaxChildren),
	}
}

// Rebuild replaces the index contents with the given snapshot.
func (g *GeoIndex) Rebuild(pool []types.Attraction) {
	tree := rtreego.NewTree(indexDimensions, indexMinChildren, indexMaxChildren)
	for _, a := range pool {
		p := rtreego.Point{a.Location.Latitude, a.Location.Longitude}
		tree.Insert(&spatialItem{attraction: a, rect: p.ToRect(indexTolerance)})
	}
	g.mu.Lock()
	g.tree = tree
	g.mu.Unlock()
}

// Nearby returns attractions within radiusKm of center, closest first.
// Ties break on lowest ID so results are stable.
func (g *GeoIndex) Nearby(center types.Coordinate, radiusKm float64) ([]types.Attraction, error) {
	if err := center.Validate(); err != nil {
		return nil, err
	}

	deg := (radiusKm / earthRadiusKm) * (180 / math.Pi)
	bounds, err := rtreego.NewRect(
		rtreego.Point{center.Latitude - deg, center.Longitude - deg},
		[]float64{2 * deg, 2 * deg},
	)
	if err != nil {
		return nil, err
	}

	g.mu.RLock()
	results := g.tree.SearchIntersect(bounds)
	g.mu.RUnlock()

	type hit struct {
		attraction types.Attraction
		distance   float64
	}
	hits := make([]hit, 0, len(results))
	for _, result := range results {
		item, ok := result.(*spatialItem)
		if !ok {
			continue
		}
		dist, err := generation.Distance(center, item.attraction.Location)
		if err != nil {
			continue
		}
		if dist <= radiusKm {
			hits = append(hits, hit{attraction: item.attraction, distance: dist})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].distance != hits[j].distance {
			return hits[i].distance < hits[j].distance
		}
		return lessID(hits[i].attraction.ID, hits[j].attraction.ID)
	})

	out := make([]types.Attraction, len(hits))
	for i, h := range hits {
		out[i] = h.attraction
	}
	return out, nil
}

func lessID(a, b uuid.UUID) bool {
	return a.String() < b.String()
}
