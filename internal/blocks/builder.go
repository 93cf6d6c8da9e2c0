package blocks

import "fmt"

// Builder assembles a Tree bottom-up: value children and nested chains are
// added first and then referenced from the shapes that own them.
type Builder struct {
	tree *Tree
}

// NewBuilder creates a builder; capHint sizes the block arena.
func NewBuilder(capHint uint) *Builder {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Builder{tree: &Tree{Blocks: NewArena[Block](capHint)}}
}

// Add stores a block with the given shape and adopts its value inputs and,
// for label groups, its nested chain.
func (b *Builder) Add(shape Shape) ID {
	id := ID(b.tree.Blocks.Allocate(Block{Shape: shape}))
	for _, child := range shape.ValueInputs() {
		b.adopt(id, child, true)
	}
	if lg, ok := shape.(LabelGroup); ok {
		b.adopt(id, lg.Body, false)
	}
	return id
}

func (b *Builder) adopt(parent, child ID, inline bool) {
	blk := b.tree.Get(child)
	if blk == nil {
		return
	}
	blk.Parent = parent
	blk.Inline = inline
}

// Chain links ids through their Next fields and returns the head, or NoID
// for an empty list. NoID entries are skipped.
func (b *Builder) Chain(ids ...ID) ID {
	var head, prev ID
	for _, id := range ids {
		if !id.IsValid() {
			continue
		}
		if prev.IsValid() {
			b.tree.Get(prev).Next = id
			b.adopt(prev, id, false)
		} else {
			head = id
		}
		prev = id
	}
	return head
}

// Root registers id as the head of a top-level chain.
func (b *Builder) Root(id ID) ID {
	if id.IsValid() {
		b.tree.Roots = append(b.tree.Roots, id)
	}
	return id
}

// Block gives mutable access to a block while the tree is being built.
func (b *Builder) Block(id ID) *Block {
	blk := b.tree.Get(id)
	if blk == nil {
		panic(fmt.Sprintf("blocks: unknown block id %d", id))
	}
	return blk
}

// SetShape replaces the shape of an existing block. The reader uses it when
// a block's children are only known after the block has been allocated.
func (b *Builder) SetShape(id ID, shape Shape) {
	b.Block(id).Shape = shape
	for _, child := range shape.ValueInputs() {
		b.adopt(id, child, true)
	}
	if lg, ok := shape.(LabelGroup); ok {
		b.adopt(id, lg.Body, false)
	}
}

// Comment attaches an editor comment to id.
func (b *Builder) Comment(id ID, text string) ID {
	b.Block(id).Comment = text
	return id
}

// Disable marks id as disabled.
func (b *Builder) Disable(id ID) ID {
	b.Block(id).Disabled = true
	return id
}

// DeclareVariable adds a workspace variable model.
func (b *Builder) DeclareVariable(v Variable) {
	b.tree.Variables = append(b.tree.Variables, v)
}

// Build returns the finished tree. The builder must not be used afterwards.
func (b *Builder) Build() *Tree {
	t := b.tree
	b.tree = nil
	return t
}
