package dmxhal

// RegisterRegion is a peripheral register block. Offsets are in bytes and
// accesses use the width of the block.
type RegisterRegion interface {
	GetName() string
	GetWidth() int
	Load(offset int) uint32
	Store(offset int, value uint32)
}

func setBits(r RegisterRegion, offset int, mask uint32) {
	r.Store(offset, r.Load(offset)|mask)
}

func clearBits(r RegisterRegion, offset int, mask uint32) {
	r.Store(offset, r.Load(offset)&^mask)
}

func modifyBits(r RegisterRegion, offset int, clear uint32, set uint32) {
	r.Store(offset, (r.Load(offset)&^clear)|set)
}

// RegisterFile is a plain in-memory register block without side effects.
type RegisterFile struct {
	Name  string
	Width int
	Regs  []uint32
}

func NewRegisterFile(name string, width int, size int) *RegisterFile {
	return &RegisterFile{
		Name:  name,
		Width: width,
		Regs:  make([]uint32, size/width),
	}
}

func (f *RegisterFile) GetName() string {
	return f.Name
}

func (f *RegisterFile) GetWidth() int {
	return f.Width
}

func (f *RegisterFile) Load(offset int) uint32 {
	return f.Regs[offset/f.Width]
}

func (f *RegisterFile) Store(offset int, value uint32) {
	if f.Width == 1 {
		value &= 0xff
	}
	f.Regs[offset/f.Width] = value
}
