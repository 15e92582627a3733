package domain

import "sort"

// TopSoilTypes is the number of soil groups kept by FloodBySoil.
const TopSoilTypes = 6

// FloodBySoil counts flood observations per soil type and returns the top
// groups by flood count. Groups with equal counts keep the order in which
// their soil type was first seen.
func FloodBySoil(records []FloodRecord) []SoilFloodCount {
	index := make(map[string]int)
	groups := make([]SoilFloodCount, 0)

	for _, r := range records {
		soil := r.SoilType
		if soil == "" {
			soil = UnknownSoil
		}
		i, ok := index[soil]
		if !ok {
			i = len(groups)
			index[soil] = i
			groups = append(groups, SoilFloodCount{Soil: soil})
		}
		groups[i].Records++
		if r.FloodOccurred {
			groups[i].Floods++
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Floods > groups[j].Floods
	})
	if len(groups) > TopSoilTypes {
		groups = groups[:TopSoilTypes]
	}
	return groups
}

// SplitFloodScatter partitions records by flood outcome, keeping at most
// perClass records of each. A perClass of zero or less keeps everything.
func SplitFloodScatter(records []FloodRecord, perClass int) FloodScatter {
	s := FloodScatter{
		Flood:   make([]FloodRecord, 0),
		NoFlood: make([]FloodRecord, 0),
	}
	for _, r := range records {
		if r.FloodOccurred {
			if perClass <= 0 || len(s.Flood) < perClass {
				s.Flood = append(s.Flood, r)
			}
			continue
		}
		if perClass <= 0 || len(s.NoFlood) < perClass {
			s.NoFlood = append(s.NoFlood, r)
		}
	}
	return s
}
