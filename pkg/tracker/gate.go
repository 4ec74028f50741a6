package tracker

// ShouldTrack decides whether any telemetry may be sent. The remote
// kill-switch overrides local consent: an operator turning tracking off
// silences every client regardless of what users agreed to.
func ShouldTrack(remoteEnabled, localConsent bool) bool {
	return remoteEnabled && localConsent
}
