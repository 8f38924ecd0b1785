package domain

// EntityKind names one of the four flat entity collections
type EntityKind string

const (
	KindClass          EntityKind = "class"
	KindObjectProperty EntityKind = "object_property"
	KindDataProperty   EntityKind = "data_property"
	KindIndividual     EntityKind = "individual"
)

// Kinds lists every flat entity kind
var Kinds = []EntityKind{KindClass, KindObjectProperty, KindDataProperty, KindIndividual}

func (k EntityKind) String() string { return string(k) }
