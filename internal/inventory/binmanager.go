package inventory

import (
	"strconv"

	"github.com/moonrepo/protohost/internal/version"
)

// BinBucket is a symlink target class: "*" (latest installed), a major
// version, a "<major>.<minor>" pair, or "canary".
type BinBucket string

// CanaryBucket is the reserved bucket name for canary-labeled builds,
// per spec.md §4.8: "canary-labeled builds only occupy the canary
// bucket."
const CanaryBucket BinBucket = "canary"

// BinManager tracks, for one tool, which installed version each bucket
// currently resolves to. Grounded on
// original_source/crates/core/src/layout/bin_manager.rs's BinManager.
type BinManager struct {
	buckets map[BinBucket]version.Spec
}

// NewBinManager builds an empty BinManager.
func NewBinManager() *BinManager {
	return &BinManager{buckets: make(map[BinBucket]version.Spec)}
}

// BuildBinManager rebuilds a BinManager from every version currently
// recorded in m.
func BuildBinManager(m *Manifest) (*BinManager, error) {
	bm := NewBinManager()
	specs, err := m.InstalledSpecs()
	if err != nil {
		return nil, err
	}
	for _, spec := range specs {
		bm.AddVersion(spec)
	}
	return bm, nil
}

// Buckets returns a snapshot of every populated bucket.
func (bm *BinManager) Buckets() map[BinBucket]version.Spec {
	out := make(map[BinBucket]version.Spec, len(bm.buckets))
	for k, v := range bm.buckets {
		out[k] = v
	}
	return out
}

// Resolve returns the version currently occupying bucket, if any.
func (bm *BinManager) Resolve(bucket BinBucket) (version.Spec, bool) {
	v, ok := bm.buckets[bucket]
	return v, ok
}

// AddVersion folds spec into every bucket it qualifies for, keeping the
// highest version per bucket. Aliases are skipped entirely — only
// concrete (semantic, calendar, canary) specs occupy buckets, mirroring
// bin_manager.rs's add_version, which ignores VersionSpec::Alias.
func (bm *BinManager) AddVersion(spec version.Spec) {
	if spec.Kind == version.KindAlias {
		return
	}
	for _, key := range bucketKeys(spec) {
		current, ok := bm.buckets[key]
		if !ok || specLess(current, spec) {
			bm.buckets[key] = spec
		}
	}
}

// RemoveVersion drops spec from bm's tracked versions, recomputing
// every bucket it may have occupied from the remaining set. Mirrors
// bin_manager.rs's remove_version: only buckets whose current value
// equals the removed spec are rebuilt.
func (bm *BinManager) RemoveVersion(spec version.Spec, remaining []version.Spec) {
	for _, key := range bucketKeys(spec) {
		if current, ok := bm.buckets[key]; ok && current.String() == spec.String() {
			delete(bm.buckets, key)
		}
	}
	for _, other := range remaining {
		if other.String() == spec.String() {
			continue
		}
		bm.AddVersion(other)
	}
}

// bucketKeys returns the buckets spec qualifies for, per spec.md §4.8:
// canary builds occupy only "canary"; every other concrete version
// occupies "*", its major, and its "<major>.<minor>" pair.
func bucketKeys(spec version.Spec) []BinBucket {
	if spec.IsCanary() {
		return []BinBucket{CanaryBucket}
	}
	if spec.Kind != version.KindSemantic && spec.Kind != version.KindCalendar {
		return nil
	}
	v := spec.Version
	return []BinBucket{
		"*",
		BinBucket(strconv.FormatUint(v.Major, 10)),
		BinBucket(strconv.FormatUint(v.Major, 10) + "." + strconv.FormatUint(v.Minor, 10)),
	}
}
