// Package resolve implements an asynchronous multi-record-type DNS
// resolution orchestrator. Given a hostname and a requested record-type set,
// it dispatches one independent lookup per type concurrently, waits for all
// of them to settle, merges the successful records, and delivers a single
// aggregated result to a caller-supplied completion handler together with a
// stable numeric error code.
//
// # Completion contract
//
// Entry points return a Code immediately. CodeOK means the work was accepted
// and the callback will fire later, exactly once, no matter how many
// sub-queries were dispatched or how many of them failed. A non-zero return
// means the operation was rejected synchronously and no callback will ever
// fire; in particular unsupported record types (NS, SOA, NAPTR, CAA) and
// unsupported operations (reverse lookup, server-list mutation, cancellation)
// fail with CodeNotSupported before any asynchronous work is scheduled.
//
// # Partial failure
//
// Sub-queries never short-circuit each other. A failed sub-query contributes
// zero records to the merge; its error is absorbed unless every sub-query
// came back empty, in which case the aggregate code is CodeNoData. Partial
// success is success.
//
//	res := resolve.New(upstream.New(5 * time.Second))
//	code := res.ResolveAddress(ctx, "example.com", resolve.LookupOptions{},
//		func(code resolve.Code, addrs []string) {
//			if code != resolve.CodeOK {
//				log.Errorf("lookup failed: %s", resolve.Describe(code))
//				return
//			}
//			for _, a := range addrs {
//				fmt.Println(a)
//			}
//		})
//	if code != resolve.CodeOK {
//		// rejected synchronously, e.g. unsupported family
//	}
//
// # Post-processing
//
// Address results are reordered so IPv4 literals come first (a stable
// partition, preserving input order within each class) and filtered for a
// loopback platform quirk. Callers opt out per request with
// LookupOptions.Verbatim, or replace the step entirely with WithPostProcess.
package resolve
