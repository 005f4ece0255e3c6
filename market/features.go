package market

// Features 是快照上的开放特征表，键由各数据源或特征计算过程定义。
type Features map[string]float64

// Keys written by the feed adapters and the feature passes.
const (
	KeyMean60 = "mean60"
	KeyVol60  = "vol60"
	KeyStd60  = "std60"

	KeyVolumeBid = "volumeBid"
	KeyVolumeAsk = "volumeAsk"

	KeyVolumeRelativeTotal = "volumeRelativeTotal"
	KeyImbalance           = "imbalance"
	KeyRealizedVol         = "realizedVol"
)

// Get returns the value for key and whether it is present.
func (f Features) Get(key string) (float64, bool) {
	v, ok := f[key]
	return v, ok
}
