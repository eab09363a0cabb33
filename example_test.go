package memocache_test

import (
	"context"
	"fmt"

	"github.com/unkn0wn-root/memocache"
	"github.com/unkn0wn-root/memocache/store/local"
)

func ExampleWrap() {
	ctx := context.Background()

	engine, _ := memocache.New(memocache.Options{Store: local.New()})
	defer engine.Close(ctx)

	computed := 0
	expensive := func(_ context.Context, args ...any) (string, error) {
		computed++
		return fmt.Sprintf("report for %v", args[0]), nil
	}

	memo, _ := memocache.Wrap(engine, memocache.WrapConfig[string]{
		Name:      "daily_report",
		Namespace: "reports",
	}, expensive)

	r1, _ := memo.Call(ctx, "2026-08-23")
	r2, _ := memo.Call(ctx, "2026-08-23") // served from cache
	fmt.Println(r1, "/", r2, "/ computed:", computed)

	// one increment retires every key in the namespace
	_ = engine.InvalidateNamespace(ctx, "reports")
	_, _ = memo.Call(ctx, "2026-08-23")
	fmt.Println("computed after invalidation:", computed)

	// Output:
	// report for 2026-08-23 / report for 2026-08-23 / computed: 1
	// computed after invalidation: 2
}
