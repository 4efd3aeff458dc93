package cache

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/wippyai/fastaccess/access/internal/resolve"
)

func compiled(path string, static int64) *resolve.Compiled {
	return &resolve.Compiled{Path: path, Static: static, Bits: 32}
}

func TestKeyOfIdentity(t *testing.T) {
	lit := "[].key"
	clone := strings.Clone(lit)

	if KeyOf(lit, 1) != KeyOf(lit, 1) {
		t.Error("same string should produce the same key")
	}
	if KeyOf(lit, 1) == KeyOf(clone, 1) {
		t.Error("content-equal string with different backing memory should differ")
	}
	if KeyOf(lit, 1) == KeyOf(lit, 0) {
		t.Error("arity is part of the key")
	}
	if KeyOf(lit, 1) == KeyOf(lit[:3], 1) {
		t.Error("prefix sharing data pointer should differ by length")
	}
	if KeyOf("", 0) != KeyOf(strings.Clone(""), 0) {
		t.Error("empty paths share one identity")
	}
	if KeyOf(lit, 2).Arity() != 2 {
		t.Error("Arity accessor")
	}
}

func TestCallSiteEmpty(t *testing.T) {
	site := NewCallSite("get", 1, Policy{})

	if n := site.Lookup(KeyOf("[]", 1)); n != nil {
		t.Error("expected nil from empty site")
	}
	st := site.Stats()
	if st.State != StateEmpty || st.Misses != 1 || st.Nodes != 0 {
		t.Errorf("stats = %+v", st)
	}
	if site.Name() != "get" || site.Arity() != 1 {
		t.Errorf("name/arity = %s/%d", site.Name(), site.Arity())
	}
}

func TestCallSiteMonomorphic(t *testing.T) {
	site := NewCallSite("get", 1, Policy{})
	key := KeyOf("[].key", 1)
	c := compiled("[].key", 0)

	if !site.Publish(NewNode(key, c)) {
		t.Fatal("publish refused")
	}
	if site.State() != StateMonomorphic {
		t.Errorf("state = %v, want monomorphic", site.State())
	}

	n := site.Lookup(key)
	if n == nil || n.Compiled != c {
		t.Fatal("expected cache hit")
	}
	if site.Lookup(KeyOf(strings.Clone("[].key"), 1)) != nil {
		t.Error("content-equal path must miss")
	}

	st := site.Stats()
	if st.Hits != 1 || st.Misses != 1 {
		t.Errorf("hits/misses = %d/%d, want 1/1", st.Hits, st.Misses)
	}
	if st.HitRate() != 50 {
		t.Errorf("hit rate = %v, want 50", st.HitRate())
	}
}

func TestCallSiteInsertionOrder(t *testing.T) {
	site := NewCallSite("get", 1, Policy{})
	paths := []string{"[].a", "[].b", "[].c", "[].d"}
	for i, p := range paths {
		site.Publish(NewNode(KeyOf(p, 1), compiled(p, int64(i))))
	}

	if site.State() != StatePolymorphic || site.Len() != 4 {
		t.Fatalf("state %v len %d", site.State(), site.Len())
	}

	keys := site.Keys()
	for i, p := range paths {
		if keys[i] != KeyOf(p, 1) {
			t.Errorf("node %d: out of insertion order", i)
		}
	}

	// oldest first, no reordering on hit
	for range 3 {
		site.Lookup(KeyOf(paths[3], 1))
	}
	if site.Head().Key() != KeyOf(paths[0], 1) {
		t.Error("lookup must not move nodes")
	}

	for i, p := range paths {
		n := site.Lookup(KeyOf(p, 1))
		if n == nil || n.Compiled.Static != int64(i) {
			t.Errorf("lookup %s: got %+v", p, n)
		}
	}
}

func TestCallSiteNodeWalk(t *testing.T) {
	site := NewCallSite("set", 0, Policy{})
	first := NewNode(KeyOf(".a", 0), compiled(".a", 0))
	second := NewNode(KeyOf(".b", 0), compiled(".b", 4))
	site.Publish(first)
	site.Publish(second)

	if site.Head() != first || first.Next() != second || second.Next() != nil {
		t.Error("chain links broken")
	}
}

func TestSpecialize(t *testing.T) {
	site := NewCallSite("get", 0, Policy{})
	key := KeyOf(".a", 0)
	builds := 0
	build := func() (*resolve.Compiled, error) {
		builds++
		return compiled(".a", 8), nil
	}

	c, published, err := site.Specialize(key, build)
	if err != nil || !published || c.Static != 8 {
		t.Fatalf("first call: %v %v %v", c, published, err)
	}
	c2, published, err := site.Specialize(key, build)
	if err != nil || published || c2 != c {
		t.Fatalf("second call: %v %v %v", c2, published, err)
	}
	if builds != 1 {
		t.Errorf("builds = %d, want 1", builds)
	}
	if st := site.Stats(); st.Resolutions != 1 {
		t.Errorf("resolutions = %d, want 1", st.Resolutions)
	}
}

func TestSpecializeErrorNotCached(t *testing.T) {
	site := NewCallSite("get", 0, Policy{})
	key := KeyOf(".bad", 0)
	boom := errors.New("boom")
	builds := 0
	build := func() (*resolve.Compiled, error) {
		builds++
		return nil, boom
	}

	for range 2 {
		if _, _, err := site.Specialize(key, build); !errors.Is(err, boom) {
			t.Fatalf("got %v, want boom", err)
		}
	}
	if builds != 2 {
		t.Errorf("builds = %d, want 2", builds)
	}
	if site.Len() != 0 {
		t.Errorf("len = %d, failing shape must not be cached", site.Len())
	}
}

func TestPolicyMegamorphic(t *testing.T) {
	site := NewCallSite("get", 1, Policy{MaxNodes: 2})
	paths := []string{"[].a", "[].b", "[].c"}

	for i, p := range paths[:2] {
		if !site.Publish(NewNode(KeyOf(p, 1), compiled(p, int64(i)))) {
			t.Fatalf("publish %s refused", p)
		}
	}
	if site.State() != StatePolymorphic {
		t.Errorf("state = %v, want polymorphic", site.State())
	}

	if site.Publish(NewNode(KeyOf(paths[2], 1), compiled(paths[2], 2))) {
		t.Fatal("publish past cap should be refused")
	}
	if site.State() != StateMegamorphic {
		t.Errorf("state = %v, want megamorphic", site.State())
	}
	if site.Len() != 2 {
		t.Errorf("len = %d, want 2", site.Len())
	}

	// cached shapes still hit, the extra one resolves every time
	if site.Lookup(KeyOf(paths[0], 1)) == nil {
		t.Error("cached shape should still hit")
	}
	builds := 0
	for range 3 {
		_, published, err := site.Specialize(KeyOf(paths[2], 1), func() (*resolve.Compiled, error) {
			builds++
			return compiled(paths[2], 2), nil
		})
		if err != nil || published {
			t.Fatalf("specialize: published=%v err=%v", published, err)
		}
	}
	if builds != 3 {
		t.Errorf("builds = %d, want 3", builds)
	}
}

func TestConcurrentPublish(t *testing.T) {
	site := NewCallSite("get", 1, Policy{})
	const workers = 16
	const perWorker = 50

	paths := make([]string, perWorker)
	for i := range paths {
		paths[i] = strings.Repeat(".f", i+1)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, p := range paths {
				key := KeyOf(p, 1)
				c, _, err := site.Specialize(key, func() (*resolve.Compiled, error) {
					return compiled(p, int64(i)), nil
				})
				if err != nil || c.Static != int64(i) {
					t.Errorf("worker got %+v, %v", c, err)
					return
				}
			}
		}()
	}
	wg.Wait()

	// every shape present, duplicates allowed
	if site.Len() < perWorker || site.Len() > perWorker*workers {
		t.Errorf("len = %d", site.Len())
	}
	if len(site.Keys()) != site.Len() {
		t.Errorf("walked %d nodes, counted %d", len(site.Keys()), site.Len())
	}
	for i, p := range paths {
		n := site.Lookup(KeyOf(p, 1))
		if n == nil || n.Compiled.Static != int64(i) {
			t.Errorf("shape %d missing or wrong", i)
		}
	}
}

func TestStateString(t *testing.T) {
	if StateMegamorphic.String() != "megamorphic" {
		t.Errorf("got %q", StateMegamorphic.String())
	}
	if State(42).String() != "unknown" {
		t.Errorf("got %q", State(42).String())
	}
}
