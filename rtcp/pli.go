package rtcp

// SetPLI marks the packet as a Picture Loss Indication: PLI carries no FCI
// beyond the sender/media SSRC pair (RFC 4585 §6.3.1).
func (f *Feedback) SetPLI() {
	f.FCI = nil
}
