package components

import "github.com/yohamta/donburi"

type HealthData struct {
	Current int
	Max     int
}

func (h *HealthData) Alive() bool { return h.Current > 0 }

var Health = donburi.NewComponentType[HealthData]()
