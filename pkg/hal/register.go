package hal

// RegAddress selects a register on the peripheral
type RegAddress uint8

func (obj RegAddress) ToByte() byte {
	return byte(obj)
}

// DeviceAddress identifies the peripheral on the shared bus
type DeviceAddress uint8

func (obj DeviceAddress) ToByte() byte {
	return byte(obj)
}

// MaxAddress is the highest 7-bit bus address
const MaxAddress DeviceAddress = 0x7F

// Is7Bit reports whether the address fits the 7-bit address field of an I2C address byte
func (obj DeviceAddress) Is7Bit() bool {
	return obj <= MaxAddress
}

// MaxPayload is the widest register value a Payload can describe
const MaxPayload = 32

// Payload is a register value whose width is fixed at compile time.
// The zero width is allowed, it addresses the register without transferring data.
// Registers wider than MaxPayload bytes have to be split by the caller into
// several register accesses.
type Payload interface {
	~[0]byte | ~[1]byte | ~[2]byte | ~[3]byte | ~[4]byte | ~[5]byte | ~[6]byte | ~[7]byte |
		~[8]byte | ~[9]byte | ~[10]byte | ~[11]byte | ~[12]byte | ~[13]byte | ~[14]byte |
		~[15]byte | ~[16]byte | ~[17]byte | ~[18]byte | ~[19]byte | ~[20]byte | ~[21]byte |
		~[22]byte | ~[23]byte | ~[24]byte | ~[25]byte | ~[26]byte | ~[27]byte | ~[28]byte |
		~[29]byte | ~[30]byte | ~[31]byte | ~[32]byte
}
