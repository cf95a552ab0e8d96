package rtp

import "testing"

// FuzzPacketRoundTrip checks that any input that parses successfully
// re-serializes without error to the same number of bytes it was parsed
// from.
func FuzzPacketRoundTrip(f *testing.F) {
	f.Add([]byte{
		0x90, 0xe0, 0x69, 0x8f, 0xd9, 0xc2, 0x93, 0xda, 0x1c, 0x64,
		0x27, 0x82, 0x00, 0x01, 0x00, 0x01, 0xFF, 0xFF, 0xFF, 0xFF,
		0x98, 0x36, 0xbe, 0x88, 0x9e,
	})
	f.Add([]byte{0x80, 0x60, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0})

	f.Fuzz(func(t *testing.T, data []byte) {
		var packet Packet
		if err := packet.Unmarshal(data); err != nil {
			return
		}

		out, err := packet.Marshal()
		if err != nil {
			t.Fatalf("Marshal failed after successful Unmarshal: %v", err)
		}
		if len(out) != len(data) {
			t.Fatalf("re-marshal length %d != original %d", len(out), len(data))
		}
	})
}
