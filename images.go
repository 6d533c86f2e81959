package flashwriter

import (
	"fmt"
	"strconv"
	"strings"
)

// Role names a storage region the bootloader knows how to write.
type Role string

const (
	RoleBL2      Role = "bl2"
	RoleFIP      Role = "fip"
	RoleOverlays Role = "overlays"
)

type roleSector struct {
	role   Role
	sector uint32
}

// roleTable is also the order images are flashed in.
var roleTable = []roleSector{
	{RoleBL2, 0x1},
	{RoleFIP, 0x100},
	{RoleOverlays, 0x1800},
}

// Roles returns the known roles in flashing order.
func Roles() []Role {
	roles := make([]Role, len(roleTable))
	for i, entry := range roleTable {
		roles[i] = entry.role
	}
	return roles
}

// Sector returns the fixed start sector for role.
func Sector(role Role) (uint32, bool) {
	for _, entry := range roleTable {
		if entry.role == role {
			return entry.sector, true
		}
	}
	return 0, false
}

// Image is a binary file destined for the region named by Role.
type Image struct {
	Role Role
	Path string
}

// Plan describes one flash run: the loader sent at low speed and the images
// written afterwards. Images may be listed in any order.
type Plan struct {
	Loader string
	Images []Image
}

// Validate checks the plan without touching the filesystem or the device.
func (p Plan) Validate() error {
	if strings.TrimSpace(p.Loader) == "" {
		return &ConfigError{Field: "loader", Reason: "path is required"}
	}

	seen := make(map[Role]bool, len(p.Images))
	for _, img := range p.Images {
		if _, ok := Sector(img.Role); !ok {
			return &ConfigError{Field: "image role", Reason: fmt.Sprintf("unknown role %q", img.Role)}
		}
		if seen[img.Role] {
			return &ConfigError{Field: "image role", Reason: fmt.Sprintf("%s given more than once", img.Role)}
		}
		if strings.TrimSpace(img.Path) == "" {
			return &ConfigError{Field: string(img.Role), Reason: "path is required"}
		}
		seen[img.Role] = true
	}
	return nil
}

// ordered returns the plan's images sorted by the role table.
func (p Plan) ordered() []Image {
	byRole := make(map[Role]Image, len(p.Images))
	for _, img := range p.Images {
		byRole[img.Role] = img
	}

	images := make([]Image, 0, len(p.Images))
	for _, entry := range roleTable {
		if img, ok := byRole[entry.role]; ok {
			images = append(images, img)
		}
	}
	return images
}

// hexArg renders n the way the bootloader parses numeric input: uppercase
// hex digits, no prefix, no padding.
func hexArg(n uint64) string {
	return strings.ToUpper(strconv.FormatUint(n, 16))
}
