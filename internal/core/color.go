package core

// Color is a semantic foreground color for a screen cell. The platform
// layer maps each one to a terminal style.
type Color uint8

// Palette entries for the things a snapshot viewer draws.
const (
	ColorDefault Color = iota
	ColorWall
	ColorGround
	ColorProp
	ColorTrunk
	ColorCanopy
	ColorSeed
	ColorProjectile
	ColorSelf
	ColorOther
	ColorSensor
	ColorJoint
	ColorHUD
	ColorWarn
)
