package main

import "testing"

func TestRunSeedDistinctPerStageAndCycle(t *testing.T) {
	const base, stages, cycles = int64(1000), 3, 4
	seen := make(map[int64][2]int)
	for s := 0; s < stages; s++ {
		for c := 1; c <= cycles; c++ {
			seed := runSeed(base, s, cycles, c)
			if prev, dup := seen[seed]; dup {
				t.Fatalf("stage %d cycle %d reuses seed %d of stage/cycle %v", s, c, seed, prev)
			}
			seen[seed] = [2]int{s, c}
		}
	}
	if got := runSeed(base, 0, cycles, 1); got != base {
		t.Fatalf("first seed = %d, want base %d", got, base)
	}
	if runSeed(base, 2, cycles, 3) != runSeed(base, 2, cycles, 3) {
		t.Fatal("seed not reproducible")
	}
}
