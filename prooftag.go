package main

import (
	"fmt"
	"hash/fnv"
	"strings"
	"time"
)

// proofTag produces an opaque provenance tag for a record. The tag stands
// in for a cryptographic attestation and carries no verifiable guarantee;
// it only has to look stable and unique enough to display.
func proofTag(domain string, parts ...string) string {
	h := fnv.New32a()
	h.Write([]byte(strings.Join(parts, "-")))
	h.Write([]byte(fmt.Sprintf("-%d", time.Now().UnixNano())))
	return fmt.Sprintf("proof-%s-%x", domain, h.Sum32())
}

// syntheticTxHash fabricates a transaction hash for simulated ledger
// entries that never touch a real chain.
func syntheticTxHash() string {
	h := fnv.New64a()
	h.Write([]byte(fmt.Sprintf("%d", time.Now().UnixNano())))
	return fmt.Sprintf("sim-tx-%x", h.Sum64())
}
