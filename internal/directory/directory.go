// Package directory holds the static catalog of categories, channels and
// seed messages, plus the user roster. Everything is read-only after load.
package directory

import (
	"fmt"
	"math/rand"

	"github.com/BurntSushi/toml"
	"github.com/ghoxt-77/Multi-Verse-Chat/internal/types"
)

type Directory struct {
	categories  []types.Category
	users       []types.User
	currentUser types.User
}

func New(categories []types.Category, users []types.User, current types.User) (*Directory, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("directory requires at least one category")
	}
	seen := make(map[string]string)
	for _, cat := range categories {
		if len(cat.Channels) == 0 {
			return nil, fmt.Errorf("category %q has no channels", cat.Id)
		}
		for _, ch := range cat.Channels {
			if other, ok := seen[ch.Id]; ok {
				return nil, fmt.Errorf("channel id %q appears in categories %q and %q", ch.Id, other, cat.Id)
			}
			seen[ch.Id] = cat.Id
		}
	}
	if current.Id == "" {
		return nil, fmt.Errorf("directory requires an acting user")
	}

	return &Directory{
		categories:  categories,
		users:       users,
		currentUser: current,
	}, nil
}

func (d *Directory) Categories() []types.Category {
	return d.categories
}

func (d *Directory) Users() []types.User {
	return d.users
}

func (d *Directory) CurrentUser() types.User {
	return d.currentUser
}

// FirstSelection returns the initial category/channel pair.
func (d *Directory) FirstSelection() (types.Category, types.Channel) {
	return d.categories[0], d.categories[0].Channels[0]
}

// Channel resolves a channel and verifies it belongs to the named category.
func (d *Directory) Channel(categoryId, channelId string) (types.Category, types.Channel, error) {
	for _, cat := range d.categories {
		if cat.Id != categoryId {
			continue
		}
		for _, ch := range cat.Channels {
			if ch.Id == channelId {
				return cat, ch, nil
			}
		}
		return types.Category{}, types.Channel{}, fmt.Errorf("channel %q does not belong to category %q", channelId, categoryId)
	}

	return types.Category{}, types.Channel{}, fmt.Errorf("unknown category %q", categoryId)
}

// User looks up a roster user by id. Unknown senders resolve to the
// acting user so a message always renders with an author.
func (d *Directory) User(id string) types.User {
	for _, u := range d.users {
		if u.Id == id {
			return u
		}
	}
	return d.currentUser
}

// OnlinePeers returns a fresh snapshot of online users excluding the given
// id. Callers own the returned slice.
func (d *Directory) OnlinePeers(excludeId string) []types.User {
	var peers []types.User
	for _, u := range d.users {
		if u.Online && u.Id != excludeId {
			peers = append(peers, u)
		}
	}
	return peers
}

// RandomOnlinePeer picks a random online user other than excludeId. The
// second return is false when no such user exists.
func (d *Directory) RandomOnlinePeer(rng *rand.Rand, excludeId string) (types.User, bool) {
	peers := d.OnlinePeers(excludeId)
	if len(peers) == 0 {
		return types.User{}, false
	}
	return peers[rng.Intn(len(peers))], true
}

type catalogFile struct {
	Categories  []types.Category `toml:"categories"`
	Users       []types.User     `toml:"users"`
	CurrentUser types.User       `toml:"currentUser"`
}

// LoadFile reads an alternate catalog from a TOML file. Seed messages are
// not expressible in the file format; file-loaded channels start empty.
func LoadFile(path string) (*Directory, error) {
	var cf catalogFile
	if _, err := toml.DecodeFile(path, &cf); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}

	return New(cf.Categories, cf.Users, cf.CurrentUser)
}
