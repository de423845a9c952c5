package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(artifactUploadBytes, artifactUploadsTotal) }

var artifactUploadBytes = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "artifact_upload_bytes_total",
		Help: "Total bytes of exported artifacts uploaded to object storage.",
	},
)

var artifactUploadsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "artifact_uploads_total",
		Help: "Artifact uploads by outcome.",
	},
	[]string{"outcome"}, // 'ok', 'error'
)

func ObserveArtifactUpload(sizeBytes int64, ok bool) {
	outcome := "ok"
	if ok {
		artifactUploadBytes.Add(float64(sizeBytes))
	} else {
		outcome = "error"
	}
	artifactUploadsTotal.WithLabelValues(outcome).Inc()
}
