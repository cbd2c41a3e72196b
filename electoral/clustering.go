// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package electoral

// ClusterStations groups stations lying within distanceThreshold meters of
// any member of a group. Map layers use it to spread overlapping markers and
// to spot the same place listed under different names.
func ClusterStations(stations []*Station, distanceThreshold float64) [][]*Station {
	clusters := make([][]*Station, 0, len(stations))

	visited := make([]bool, len(stations))

	for i, s1 := range stations {
		if visited[i] {
			continue
		}

		cluster := []*Station{s1}
		visited[i] = true

		for j, s2 := range stations {
			if visited[j] {
				continue
			}

			for _, member := range cluster {
				if s2.Point.HaversineDistance(&member.Point) <= distanceThreshold {
					cluster = append(cluster, s2)
					visited[j] = true

					break
				}
			}
		}

		clusters = append(clusters, cluster)
	}

	return clusters
}
