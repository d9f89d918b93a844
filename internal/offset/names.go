package offset

import "fmt"

// Name identifies an entry of the offset table.
type Name int

// internal header
const (
	HeaderTitle Name = iota
	HeaderMapMode
	HeaderCartType
	HeaderROMSize
	HeaderRAMSize
	HeaderRegion
	HeaderLicensee
	HeaderVersion
	HeaderChecksumComplement
	HeaderChecksum
	NativeVectors
	EmulationVectors
)

// code locations: pointer operands, immediate values and binary patch hooks
const (
	TrackMapsPointer Name = iota + EmulationVectors + 1
	TrackAIDataPointer
	TrackOverlayItemsPointer
	TrackOverlayPatternsPointer
	ThemeRoadGraphicsPointer
	ThemePalettesPointer
	ThemeBackgroundGraphicsPointer
	ThemeBackgroundLayoutsPointer
	CommonTilesetGraphicsPointer
	ItemIconGraphicsPointer
	TitleScreenGraphicsPointer
	PodiumGraphicsPointer
	FirstBattleTrack
	GPLapCount
	ObjectHack1
	ObjectHack2
	ObjectHack3
	ObjectHack4
	ObjectHack5
	ObjectHack6
	BattleStartPositionsHack
	TileGenresHack
)

// data tables
const (
	GPTrackOrder Name = iota + TileGenresHack + 1
	BattleTrackOrder
	TrackThemes
	GPTrackStartPositions
	TrackLapLines
	TrackPreviewLapLines
	BattleTrackStartPositions
	TrackObjectZones
	TrackObjectGraphics
	TrackObjectInteractions
	TrackObjectRoutines
	TrackObjectPalettes
	TrackObjectFlashing
	ItemProbabilities
	BattleItemProbabilities
	RankPoints
	CupUnlockFlags
	DriverSpeeds
	DriverAccelerations
	DriverWeights
	TileGenres
	CourseSelectTexts
	CourseSelectTextsEnd
	TrackNameTexts
	TrackNameTextsEnd
	DriverNameTexts
	DriverNameTextsEnd
	ModeTexts
	ModeTextsEnd
	MenuPalettes
)

// pointer resolved locations
const (
	TrackMaps Name = iota + MenuPalettes + 1
	BattleTrackMaps
	TrackAIData
	BattleTrackAIData
	TrackOverlayItems
	TrackOverlayPatterns
	ThemeRoadGraphics
	ThemePalettes
	ThemeBackgroundGraphics
	ThemeBackgroundLayouts
	CommonTilesetGraphics
	ItemIconGraphics
	TitleScreenGraphics
	PodiumGraphics

	nameCount
)

var nameStrings = [nameCount]string{
	HeaderTitle:                    "HeaderTitle",
	HeaderMapMode:                  "HeaderMapMode",
	HeaderCartType:                 "HeaderCartType",
	HeaderROMSize:                  "HeaderROMSize",
	HeaderRAMSize:                  "HeaderRAMSize",
	HeaderRegion:                   "HeaderRegion",
	HeaderLicensee:                 "HeaderLicensee",
	HeaderVersion:                  "HeaderVersion",
	HeaderChecksumComplement:       "HeaderChecksumComplement",
	HeaderChecksum:                 "HeaderChecksum",
	NativeVectors:                  "NativeVectors",
	EmulationVectors:               "EmulationVectors",
	TrackMapsPointer:               "TrackMapsPointer",
	TrackAIDataPointer:             "TrackAIDataPointer",
	TrackOverlayItemsPointer:       "TrackOverlayItemsPointer",
	TrackOverlayPatternsPointer:    "TrackOverlayPatternsPointer",
	ThemeRoadGraphicsPointer:       "ThemeRoadGraphicsPointer",
	ThemePalettesPointer:           "ThemePalettesPointer",
	ThemeBackgroundGraphicsPointer: "ThemeBackgroundGraphicsPointer",
	ThemeBackgroundLayoutsPointer:  "ThemeBackgroundLayoutsPointer",
	CommonTilesetGraphicsPointer:   "CommonTilesetGraphicsPointer",
	ItemIconGraphicsPointer:        "ItemIconGraphicsPointer",
	TitleScreenGraphicsPointer:     "TitleScreenGraphicsPointer",
	PodiumGraphicsPointer:          "PodiumGraphicsPointer",
	FirstBattleTrack:               "FirstBattleTrack",
	GPLapCount:                     "GPLapCount",
	ObjectHack1:                    "ObjectHack1",
	ObjectHack2:                    "ObjectHack2",
	ObjectHack3:                    "ObjectHack3",
	ObjectHack4:                    "ObjectHack4",
	ObjectHack5:                    "ObjectHack5",
	ObjectHack6:                    "ObjectHack6",
	BattleStartPositionsHack:       "BattleStartPositionsHack",
	TileGenresHack:                 "TileGenresHack",
	GPTrackOrder:                   "GPTrackOrder",
	BattleTrackOrder:               "BattleTrackOrder",
	TrackThemes:                    "TrackThemes",
	GPTrackStartPositions:          "GPTrackStartPositions",
	TrackLapLines:                  "TrackLapLines",
	TrackPreviewLapLines:           "TrackPreviewLapLines",
	BattleTrackStartPositions:      "BattleTrackStartPositions",
	TrackObjectZones:               "TrackObjectZones",
	TrackObjectGraphics:            "TrackObjectGraphics",
	TrackObjectInteractions:        "TrackObjectInteractions",
	TrackObjectRoutines:            "TrackObjectRoutines",
	TrackObjectPalettes:            "TrackObjectPalettes",
	TrackObjectFlashing:            "TrackObjectFlashing",
	ItemProbabilities:              "ItemProbabilities",
	BattleItemProbabilities:        "BattleItemProbabilities",
	RankPoints:                     "RankPoints",
	CupUnlockFlags:                 "CupUnlockFlags",
	DriverSpeeds:                   "DriverSpeeds",
	DriverAccelerations:            "DriverAccelerations",
	DriverWeights:                  "DriverWeights",
	TileGenres:                     "TileGenres",
	CourseSelectTexts:              "CourseSelectTexts",
	CourseSelectTextsEnd:           "CourseSelectTextsEnd",
	TrackNameTexts:                 "TrackNameTexts",
	TrackNameTextsEnd:              "TrackNameTextsEnd",
	DriverNameTexts:                "DriverNameTexts",
	DriverNameTextsEnd:             "DriverNameTextsEnd",
	ModeTexts:                      "ModeTexts",
	ModeTextsEnd:                   "ModeTextsEnd",
	MenuPalettes:                   "MenuPalettes",
	TrackMaps:                      "TrackMaps",
	BattleTrackMaps:                "BattleTrackMaps",
	TrackAIData:                    "TrackAIData",
	BattleTrackAIData:              "BattleTrackAIData",
	TrackOverlayItems:              "TrackOverlayItems",
	TrackOverlayPatterns:           "TrackOverlayPatterns",
	ThemeRoadGraphics:              "ThemeRoadGraphics",
	ThemePalettes:                  "ThemePalettes",
	ThemeBackgroundGraphics:        "ThemeBackgroundGraphics",
	ThemeBackgroundLayouts:         "ThemeBackgroundLayouts",
	CommonTilesetGraphics:          "CommonTilesetGraphics",
	ItemIconGraphics:               "ItemIconGraphics",
	TitleScreenGraphics:            "TitleScreenGraphics",
	PodiumGraphics:                 "PodiumGraphics",
}

func (n Name) String() string {
	if n < 0 || n >= nameCount {
		return fmt.Sprintf("Name(%d)", int(n))
	}
	return nameStrings[n]
}

// Names returns all names in table order.
func Names() []Name {
	names := make([]Name, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.name)
	}
	return names
}
