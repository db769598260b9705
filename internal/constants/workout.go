package constants

const (
	// CycleLength is the number of days in every generated plan.
	CycleLength = 30

	// DaysPerWeek is the number of template slots in the catalog; slot 6 is the rest day.
	DaysPerWeek = 7
	RestDaySlot = 6

	// Equipment adaptation
	AdaptedNameMarker      = " (adaptat)"
	AdaptedDescriptionNote = " Variantă adaptată: echipamentul necesar lipsește, volum redus."

	// Carry-over of unmet targets
	CarryOverNameMarker  = " (recuperare)"
	CarryOverDescription = "Recuperare: volum neterminat din ziua precedentă."

	DefaultDifficulty = 1.0
)

// Equipment tags understood by the catalog
const (
	EquipmentDumbbells  = "gantere"
	EquipmentPullUpBar  = "bara"
	EquipmentBench      = "banca"
	EquipmentJumpRope   = "coarda"
	EquipmentKettlebell = "kettlebell"
)
