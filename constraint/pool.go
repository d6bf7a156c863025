package constraint

// ContactAllocator constructs and releases contacts in stable storage.
// The manifold never owns its allocator; a simulation context typically
// shares one pool across all of its manifolds.
type ContactAllocator interface {
	Construct(info *ContactInfo) *Contact
	Release(contact *Contact)
}

// contactSlabSize is the number of contact slots added per pool growth
const contactSlabSize = 128

// ContactPool is a slab allocator for contacts. Slots are handed out from
// a free list and recycled on release, so steady-state construct/release
// cycles never touch the general heap; the pool only allocates when every
// slot of every slab is live.
//
// A pool is exclusive to its owning simulation context and carries no
// internal synchronisation.
type ContactPool struct {
	tuning Tuning

	slabs [][]Contact
	free  []*Contact

	constructed uint64
	released    uint64
}

func NewContactPool(tuning Tuning) *ContactPool {
	p := &ContactPool{tuning: tuning}
	p.grow()
	return p
}

func (p *ContactPool) grow() {
	slab := make([]Contact, contactSlabSize)
	p.slabs = append(p.slabs, slab)
	for i := range slab {
		p.free = append(p.free, &slab[i])
	}
}

// Construct initialises a contact in a recycled slot from the given
// narrow-phase snapshot
func (p *ContactPool) Construct(info *ContactInfo) *Contact {
	if len(p.free) == 0 {
		p.grow()
	}

	c := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]
	c.init(info, p.tuning)
	p.constructed++

	return c
}

// Release pushes the contact's slot back on the free list. Releasing a
// nil contact is a programming error.
func (p *ContactPool) Release(contact *Contact) {
	if contact == nil {
		panic("contact pool: release of nil contact")
	}

	*contact = Contact{}
	p.free = append(p.free, contact)
	p.released++
}

// Constructed returns the total number of contacts handed out
func (p *ContactPool) Constructed() uint64 { return p.constructed }

// Released returns the total number of contacts given back
func (p *ContactPool) Released() uint64 { return p.released }

// InUse returns the number of live contacts currently held by manifolds
func (p *ContactPool) InUse() uint64 { return p.constructed - p.released }

// Capacity returns the number of contact slots currently reserved
func (p *ContactPool) Capacity() int { return len(p.slabs) * contactSlabSize }
