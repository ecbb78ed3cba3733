package project

import "strings"

// ItemType is the element name of an MSBuild item.
type ItemType string

// Item types written by the Modifier.
const (
	ItemReference        ItemType = "Reference"
	ItemCompile          ItemType = "Compile"
	ItemNone             ItemType = "None"
	ItemEmbeddedResource ItemType = "EmbeddedResource"
	ItemPackageReference ItemType = "PackageReference"
	ItemProjectReference ItemType = "ProjectReference"
)

// ItemTypeForExtension classifies a source file by extension. The
// comparison ignores case; unknown extensions map to None.
func ItemTypeForExtension(ext string) ItemType {
	switch strings.ToLower(ext) {
	case ".cs", ".vb", ".fs":
		return ItemCompile
	case ".resx":
		return ItemEmbeddedResource
	default:
		return ItemNone
	}
}
