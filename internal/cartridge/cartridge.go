package cartridge

// Cartridge bundles a parsed header with the MBC that serves its address
// space. It is the unit the MMU attaches to.
type Cartridge struct {
	Header Header
	MBC    MBC
}

// New parses rom's header and builds the matching MBC.
func New(rom []byte) (*Cartridge, error) {
	h, err := ParseHeader(rom)
	if err != nil {
		return nil, err
	}
	mbc, err := NewMBC(h, rom)
	if err != nil {
		return nil, err
	}
	return &Cartridge{Header: h, MBC: mbc}, nil
}

func (c *Cartridge) Read(addr uint16) uint8        { return c.MBC.Read(addr) }
func (c *Cartridge) Write(addr uint16, value uint8) { c.MBC.Write(addr, value) }
