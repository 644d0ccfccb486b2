package logging

import (
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

func Component(name string) Field {
	return String("component", name)
}

// ArticleID names the focus article of a relation map
func ArticleID(id string) Field {
	return String("article_id", id)
}

// OSDID names a related dataset
func OSDID(id string) Field {
	return String("osd_id", id)
}

func Similarity(s float64) Field {
	return Float64("similarity", s)
}

func Seed(seed string) Field {
	return String("seed", seed)
}

func Bucket(name string) Field {
	return String("bucket", name)
}

// RunID tags every line of one batch run
func RunID(id string) Field {
	return String("run_id", id)
}

// Source names where catalog data was loaded from
func Source(name string) Field {
	return String("source", name)
}

func Operation(op string) Field {
	return String("operation", op)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func Count(n int) Field {
	return Int("count", n)
}

func Path(p string) Field {
	return String("path", p)
}
