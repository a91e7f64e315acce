package lock

import "golang.org/x/sync/errgroup"

// VerifyAll verifies each host independently and returns one result per host,
// in the same order. At most limit verifications run at once; limit <= 0 means
// no limit.
func VerifyAll(hosts []Host, limit int, opts ...Option) []error {
	v := NewVerifier(opts...)
	errs := make([]error, len(hosts))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i := range hosts {
		i := i
		g.Go(func() error {
			errs[i] = v.Verify(hosts[i])
			return nil
		})
	}
	_ = g.Wait()
	return errs
}
