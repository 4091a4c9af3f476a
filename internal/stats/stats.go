// Package stats derives dashboard figures from a cylinder snapshot. All
// functions are pure; callers fetch the list once and compute over it.
package stats

import (
	"strings"

	"cylinderManagement/internal/lifecycle"
	"cylinderManagement/models"
)

// Summary is the set of admin dashboard counters.
type Summary struct {
	EmptyAtWarehouse int
	AtCustomer       int
	Total            int
	ByState          map[lifecycle.State]int
}

// Summarize partitions the cylinder set by (status, location).
func Summarize(cylinders []models.Cylinder) Summary {
	s := Summary{ByState: map[lifecycle.State]int{}}
	for i := range cylinders {
		c := &cylinders[i]
		st := lifecycle.StateOf(c)
		s.ByState[st]++
		s.Total++
		if st == lifecycle.StateEmptyWarehouse {
			s.EmptyAtWarehouse++
		}
		if c.Location == models.LocationCustomer {
			s.AtCustomer++
		}
	}
	return s
}

// FilterCylinders returns the cylinders whose serial contains serialSub
// (case-insensitive) and whose status equals status. Either filter may be
// empty to match all.
func FilterCylinders(cylinders []models.Cylinder, serialSub string, status models.CylinderStatus) []models.Cylinder {
	serialSub = strings.ToLower(serialSub)
	var out []models.Cylinder
	for _, c := range cylinders {
		if serialSub != "" && !strings.Contains(strings.ToLower(c.SerialNumber), serialSub) {
			continue
		}
		if status != "" && c.Status != status {
			continue
		}
		out = append(out, c)
	}
	return out
}

// AvailableForOrder returns the cylinders eligible for a new order
// (empty at the warehouse).
func AvailableForOrder(cylinders []models.Cylinder) []models.Cylinder {
	var out []models.Cylinder
	for i := range cylinders {
		if lifecycle.CanPlaceOrder(&cylinders[i]) {
			out = append(out, cylinders[i])
		}
	}
	return out
}

// AvailableForPickup returns the cylinders eligible for a pickup request
// (delivered, at the customer).
func AvailableForPickup(cylinders []models.Cylinder) []models.Cylinder {
	var out []models.Cylinder
	for i := range cylinders {
		if lifecycle.CanRequestPickup(&cylinders[i]) {
			out = append(out, cylinders[i])
		}
	}
	return out
}
