package spi

// TransmitterFactory enumerates the transmitter instances a platform
// provides for one lane width. Factories run once, lazily; the registry
// owns the returned instances for the life of the process.
type TransmitterFactory func() []LaneTransmitter

var (
	transmitterFactories = make(map[int][]TransmitterFactory)
	transmitterCache     = make(map[int][]LaneTransmitter)
)

// RegisterTransmitterFactory is called by platform packages (typically
// from init) to make their transmitters discoverable. lanes is the
// width the instances serve (1, 2, 4 or 8).
func RegisterTransmitterFactory(lanes int, f TransmitterFactory) {
	transmitterFactories[lanes] = append(transmitterFactories[lanes], f)
	delete(transmitterCache, lanes)
}

// Transmitters returns every registered transmitter for the given lane
// width. An empty result means the feature is unavailable on this
// platform; it is not an error.
func Transmitters(lanes int) []LaneTransmitter {
	if cached, ok := transmitterCache[lanes]; ok {
		return cached
	}
	var all []LaneTransmitter
	for _, f := range transmitterFactories[lanes] {
		all = append(all, f()...)
	}
	transmitterCache[lanes] = all
	return all
}

// claimTransmitter returns the first registered transmitter of the given
// width that is not already in use, or nil when none is free.
func claimTransmitter(lanes int) LaneTransmitter {
	for _, tx := range Transmitters(lanes) {
		if !tx.IsInitialized() {
			return tx
		}
	}
	return nil
}

// resetTransmittersForTest clears the registry. Tests only.
func resetTransmittersForTest() {
	transmitterFactories = make(map[int][]TransmitterFactory)
	transmitterCache = make(map[int][]LaneTransmitter)
}
