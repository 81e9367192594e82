// Package shutdown turns termination signals into context cancellation.
//
// The first SIGINT or SIGTERM cancels the context so in-flight requests
// stop. A second signal calls the force hook, which usually exits.
//
//	ctx, stop := shutdown.WithSignals(context.Background(), func() { os.Exit(130) })
//	defer stop()
package shutdown
