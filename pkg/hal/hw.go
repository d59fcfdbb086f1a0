package hal

// Bus is the blocking transport a register interface talks through.
// Implementations own arbitration, acknowledgement and timing.
type Bus interface {
	// Write sends frame to the device as a single write transaction
	Write(address DeviceAddress, frame []byte) error
	// WriteRead sends request and then reads exactly len(response) bytes into response,
	// as one bus transaction
	WriteRead(address DeviceAddress, request []byte, response []byte) error
}
