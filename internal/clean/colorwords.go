package clean

// validColorWords is the closed set of recognized English color words
// (including fashion terms) that bypass LLM suggestion even in all caps
// (§4.3). Keys are upper-cased for lookup.
var validColorWords = buildWordSet([]string{
	"BLACK", "WHITE", "RED", "BLUE", "GREEN", "YELLOW", "ORANGE", "PURPLE",
	"PINK", "BROWN", "GRAY", "GREY", "NAVY", "TEAL", "MAROON", "BURGUNDY",
	"GOLD", "SILVER", "BRONZE", "IVORY", "CREAM", "BEIGE", "TAN", "KHAKI",
	"CHARCOAL", "SLATE", "TURQUOISE", "AQUA", "CYAN", "MAGENTA", "VIOLET",
	"LAVENDER", "LILAC", "PLUM", "MAUVE", "BLUSH", "ROSE", "CORAL",
	"SALMON", "PEACH", "APRICOT", "RUST", "TERRACOTTA", "SIENNA", "CLAY",
	"MUSTARD", "OCHRE", "AMBER", "CHAMPAGNE", "NUDE", "TAUPE", "SAND",
	"STONE", "PEWTER", "GRAPHITE", "JET", "ONYX", "EBONY", "PEARL",
	"PLATINUM", "COPPER", "BRASS", "EMERALD", "JADE", "MINT", "SAGE",
	"OLIVE", "FOREST", "HUNTER", "KELLY", "LIME", "CHARTREUSE", "PEACOCK",
	"COBALT", "SAPPHIRE", "ROYAL", "SKY", "POWDER", "PERIWINKLE",
	"INDIGO", "DENIM", "STEEL", "SLATE BLUE", "MIDNIGHT", "INK",
	"FUCHSIA", "HOT PINK", "BUBBLEGUM", "CANDY", "WATERMELON", "CHERRY",
	"CRIMSON", "SCARLET", "BRICK", "WINE", "MERLOT", "OXBLOOD", "GARNET",
	"RUBY", "CORAL PINK", "DUSTY ROSE", "DUSTY BLUE", "DUSTY PINK",
	"MOCHA", "ESPRESSO", "CHOCOLATE", "COCOA", "CAMEL", "COGNAC",
	"CARAMEL", "HONEY", "BUTTERSCOTCH", "MARIGOLD", "SUNFLOWER",
	"CANARY", "LEMON", "BANANA", "DAFFODIL", "FLAX", "WHEAT", "OATMEAL",
	"LINEN", "ECRU", "ALABASTER", "SNOW", "FROST", "ARCTIC", "GLACIER",
	"CLOUD", "FOG", "MIST", "SMOKE", "ASH", "SHADOW", "RAVEN", "COAL",
	"OBSIDIAN", "NIGHT", "STARLIGHT", "MOONLIGHT", "SUNSET", "SUNRISE",
	"FLAMINGO", "TROPICAL", "OCEAN", "LAGOON", "LAKE", "RIVER", "STORM",
	"THUNDER", "STEEL BLUE", "DENIM BLUE", "BABY BLUE", "BABY PINK",
	"ICE BLUE", "ICE PINK", "PASTEL PINK", "PASTEL BLUE", "PASTEL GREEN",
	"PASTEL YELLOW", "PASTEL PURPLE", "NEON PINK", "NEON GREEN",
	"NEON YELLOW", "NEON ORANGE", "ELECTRIC BLUE", "ELECTRIC PURPLE",
	"HOLOGRAM", "IRIDESCENT", "METALLIC", "ROSE GOLD", "GUNMETAL",
	"TITANIUM", "MERCURY", "ALUMINUM", "CHROME", "NICKEL", "TIN",
	"AUBERGINE", "EGGPLANT", "GRAPE", "RAISIN", "BERRY", "BLACKBERRY",
	"RASPBERRY", "STRAWBERRY", "CHERRY RED", "APPLE RED", "TOMATO",
	"PUMPKIN", "TANGERINE", "MANDARIN", "SAFFRON", "CURRY",
	"SEAFOAM", "MINT GREEN", "PISTACHIO", "AVOCADO", "MOSS", "FERN",
	"IVY", "SHAMROCK", "EMERALD GREEN", "BOTTLE GREEN", "RACING GREEN",
	"ARMY GREEN", "CAMO", "CAMOUFLAGE", "DARK GREEN", "LIGHT GREEN",
	"DARK BLUE", "LIGHT BLUE", "DARK RED", "LIGHT PINK", "LIGHT GRAY",
	"DARK GRAY", "MULTI", "MULTICOLOR", "PRINT", "FLORAL", "LEOPARD",
	"ZEBRA", "SNAKE", "ANIMAL PRINT", "OMBRE", "TIE DYE",
})

// knownAbbreviations is the closed set of abbreviation-style color codes
// that ARE candidate input for LLM suggestion (§4.3).
var knownAbbreviations = buildWordSet([]string{
	"BLK", "WHT", "RD", "BLU", "GRN", "YLW", "ORG", "PRP", "PNK", "BRN",
	"GRY", "NVY", "TL", "MRN", "BRG", "GLD", "SLV", "BRZ", "IVR", "CRM",
	"BGE", "TN", "KHK", "CHR", "SLT", "TRQ", "AQ", "CYN", "MGT", "VLT",
	"LVD", "LLC", "PLM", "MV", "BLH", "RS", "CRL", "SLM", "PCH", "APR",
	"RST", "TRC", "SN", "CLY", "MST", "OCR", "AMB", "CHM", "ND", "TPE",
	"SND", "STN", "PWT", "GPH", "JT", "ONX", "EBN", "PRL", "PLT", "CPR",
	"BRS", "EMR", "JD", "MNT", "SG", "OLV", "FRT", "HNT", "KLY", "LM",
	"CHT", "PCK", "CBT", "SPH", "RYL", "SKY", "PWD", "PRW", "IND", "DNM",
	"STL", "MDN", "INK", "FCH", "HP", "CND", "WTM", "CHY", "CRM2", "SCL",
	"BRK", "WN", "MRL", "OXB", "GNT", "RBY",
})

func buildWordSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
