package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"newsrag/api"
	"newsrag/archive"
	"newsrag/config"
	"newsrag/embeddings"
	"newsrag/generation"
	"newsrag/ingest"
	"newsrag/kafka"
	"newsrag/orchestrator"
	"newsrag/popularity"
	"newsrag/querycache"
	"newsrag/retrieval"
	"newsrag/session"
	"newsrag/synthesis"
	"newsrag/trending"
	"newsrag/vectorstore"
	"newsrag/warming"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	embedder, err := embeddings.NewCohereFromEnv()
	if err != nil {
		log.Fatalf("Failed to initialize embeddings provider: %v", err)
	}
	answerer, err := generation.NewCohereFromEnv()
	if err != nil {
		log.Fatalf("Failed to initialize generation client: %v", err)
	}
	index := vectorstore.NewQdrantFromEnv()

	redisClient, err := querycache.NewRedisClientFromEnv()
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	kv := querycache.NewRedisKV(redisClient)

	cache := querycache.New(kv)
	tracker := popularity.NewRedisTracker(redisClient)
	sessions := session.NewStore(kv)

	retriever := retrieval.New(embedder, index)
	synthesizer := synthesis.New(answerer)
	orch := orchestrator.New(retriever, synthesizer, cache, tracker)

	var archiver ingest.Archiver
	if s3arch, err := archive.NewS3FromEnv(context.Background()); err != nil {
		log.Printf("Warning: failed to init S3 archive: %v (archival disabled)", err)
	} else if s3arch != nil {
		archiver = s3arch
	}
	var seen ingest.SeenFilter
	if v, _ := strconv.ParseBool(os.Getenv("BLOOM_DEDUP_ENABLED")); v {
		seen = ingest.NewBloomFilter(redisClient, ingest.BloomConfig{
			Key: config.GetEnvOrDefault("BLOOM_KEY", "articles:bloom"),
		})
	}
	indexer := ingest.NewIndexer(embedder, index, archiver, seen)

	warmer := warming.New(tracker, trending.New(index), retriever, synthesizer, cache)

	// Collection init and cache warming run in the background; requests
	// arriving earlier simply miss the cache.
	go func() {
		initCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := index.EnsureCollection(initCtx, config.CollectionName, config.EmbeddingDim); err != nil {
			log.Printf("Failed to initialize collection: %v", err)
		}
		cancel()

		warmer.Warm(context.Background())

		interval := 60 * time.Minute
		if v := os.Getenv("WARM_INTERVAL_MINUTES"); v != "" {
			if mins, err := strconv.Atoi(v); err == nil && mins >= 0 {
				interval = time.Duration(mins) * time.Minute
			}
		}
		if interval == 0 {
			return
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			warmer.Warm(context.Background())
		}
	}()

	// Optional Kafka ingestion of article events
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
			Brokers: strings.Split(brokers, ","),
			Topic:   config.GetEnvOrDefault("KAFKA_TOPIC", "news.articles"),
			GroupID: config.GetEnvOrDefault("KAFKA_GROUP_ID", "newsrag-indexer"),
			Handler: ingest.NewArticleHandler(indexer),
		})
		if err != nil {
			log.Printf("Warning: failed to init Kafka consumer: %v (event ingestion disabled)", err)
		} else {
			if err := consumer.Start(context.Background()); err != nil {
				log.Printf("Warning: Kafka consumer failed to start: %v", err)
			}
			defer consumer.Close()
		}
	}

	server := api.NewServer(orch, sessions, indexer, config.FeedURLs())
	r := api.NewRouter(server)

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	log.Printf("Starting API server on %s", addr)
	log.Println("API endpoints available:")
	log.Println("  GET  /api/health")
	log.Println("  GET  /news")
	log.Println("  POST /query/chatbot")
	log.Println("  GET  /session/history")
	log.Println("  GET  /session/clear-history")

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
