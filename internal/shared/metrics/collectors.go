package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pledge_api_http_request_duration_seconds",
		Help:    "latência das requisições HTTP por rota",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	PledgesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pledges_created_total",
		Help: "pledges persistidos",
	})

	PledgeEventErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pledge_event_publish_errors_total",
		Help: "falhas ao publicar pledge_created no Kafka",
	})

	StatsCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pledge_stats_cache_lookups_total",
		Help: "consultas ao cache de estatísticas por resultado",
	}, []string{"result"}) // hit | miss | error

	PostsUploaded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "posts_uploaded_total",
		Help: "posts criados com imagem persistida",
	})

	UploadsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "post_upload_rejected_total",
		Help: "uploads rejeitados por motivo",
	}, []string{"reason"})

	OrphanFiles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "post_orphan_files_total",
		Help: "arquivos que não puderam ser removidos do content store",
	})

	WorkerMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stats_worker_messages_total",
		Help: "mensagens processadas pelo stats-worker por estágio",
	}, []string{"stage"}) // consumed | cached | broadcast | error_*
)
