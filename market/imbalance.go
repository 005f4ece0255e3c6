package market

// CalculateImbalance calculates the imbalance between bid and ask volumes
// Imbalance = (BidVol - AskVol) / (BidVol + AskVol)
func CalculateImbalance(bidVolumeTop float64, askVolumeTop float64) float64 {
	totalVolume := bidVolumeTop + askVolumeTop
	if totalVolume == 0 {
		return 0
	}
	return (bidVolumeTop - askVolumeTop) / totalVolume
}

// SnapshotImbalance calculates imbalance over the top levels of a snapshot.
// levels <= 0 uses every level.
func SnapshotImbalance(s *Snapshot, levels int) float64 {
	if s == nil {
		return 0
	}
	return CalculateImbalance(topQty(s.buyers, levels), topQty(s.sellers, levels))
}

func topQty(entries []Entry, levels int) float64 {
	total := 0.0
	for i, e := range entries {
		if levels > 0 && i >= levels {
			break
		}
		total += e.qty
	}
	return total
}
