package scan

// A Strategy extracts one logical value from a scan record, returning the
// empty string when the record does not carry it. Strategies for a logical
// field are tried in priority order; the first non-empty result wins.
type Strategy struct {
	Name    string
	Extract func(Record) string
}

func fieldStrategy(name string, keys ...string) Strategy {
	return Strategy{
		Name: name,
		Extract: func(r Record) string {
			return r.stringField(keys...)
		},
	}
}

// panIDStrategies resolves the pan identifier for a scan. Auditor-confirmed
// fields outrank the raw detector outputs; among detectors, the generative
// model outranks YOLO, which outranks corner detection.
var panIDStrategies = []Strategy{
	fieldStrategy("auditor", "auditorPanId", "auditedPanId"),
	fieldStrategy("pipeline", "panId", "PanID", "pan_id", "identifiedPan"),
	fieldStrategy("generative", "genAIPanId", "GenAI_Pan_ID"),
	fieldStrategy("yolo", "YOLOv8_Pan_ID", "yoloPanId"),
	fieldStrategy("corner", "Corner_Best_Pan_ID", "cornerPanId"),
}

// menuItemIDStrategies resolves the menu item identifier.
var menuItemIDStrategies = []Strategy{
	fieldStrategy("auditor", "auditorMenuItemId", "auditedMenuItemId"),
	fieldStrategy("pipeline", "menuItemId", "MenuItemID", "reportedMenuItemId"),
}

// menuItemNameStrategies resolves the menu item display name.
var menuItemNameStrategies = []Strategy{
	fieldStrategy("reported", "reportedMenuItemName"),
	fieldStrategy("pipeline", "menuItemName", "MenuItemName"),
}

func extract(r Record, strategies []Strategy) string {
	for _, strategy := range strategies {
		if value := strategy.Extract(r); value != "" {
			return value
		}
	}
	return ""
}

// ExtractPanID returns the highest-priority pan identifier on the record,
// raw and unsanitized.
func ExtractPanID(r Record) string {
	return extract(r, panIDStrategies)
}

// ExtractMenuItemID returns the highest-priority menu item id on the record.
func ExtractMenuItemID(r Record) string {
	return extract(r, menuItemIDStrategies)
}

// ExtractMenuItemName returns the highest-priority menu item name on the
// record.
func ExtractMenuItemName(r Record) string {
	return extract(r, menuItemNameStrategies)
}
