package scene

import (
	"errors"
	"fmt"
	"sync"
)

var ErrTextureID = errors.New("texture id out of range")

// TextureTable maps small integer ids to textures. Ids inside the capacity
// with nothing loaded are valid and resolve to nil, which samples black.
type TextureTable struct {
	mu    sync.RWMutex
	slots []*Texture
}

func NewTextureTable(capacity int) *TextureTable {
	return &TextureTable{slots: make([]*Texture, capacity)}
}

func (t *TextureTable) Capacity() int {
	return len(t.slots)
}

func (t *TextureTable) Valid(id int) bool {
	return id >= 0 && id < len(t.slots)
}

func (t *TextureTable) Set(id int, tex *Texture) error {
	if !t.Valid(id) {
		return fmt.Errorf("set texture %d: %w (capacity %d)", id, ErrTextureID, len(t.slots))
	}
	t.mu.Lock()
	t.slots[id] = tex
	t.mu.Unlock()
	return nil
}

// Load reads an image file into slot id.
func (t *TextureTable) Load(id int, path string) error {
	if !t.Valid(id) {
		return fmt.Errorf("load texture %d: %w (capacity %d)", id, ErrTextureID, len(t.slots))
	}
	tex, err := LoadTexture(path)
	if err != nil {
		return err
	}
	return t.Set(id, tex)
}

func (t *TextureTable) Texture(id int) *Texture {
	if !t.Valid(id) {
		return nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.slots[id]
}

// Loaded counts occupied slots.
func (t *TextureTable) Loaded() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, tex := range t.slots {
		if tex != nil {
			n++
		}
	}
	return n
}
