package cfg

type (
	App struct {
		Name    string
		Version string
	}

	Mysql struct {
		Enabled               bool
		Host                  string
		Port                  string
		Username              string
		Password              string
		Database              string
		MaxIdleConnection     int
		MaxOpenConnection     int
		MaxLifeTimeConnection int
	}

	// Credentials are an opaque pair, Username may be empty when only a token is used
	GithubApi struct {
		BaseUrl           string
		Username          string
		AccessToken       string
		AcceptHeader      string
		RequestTimeoutSec int
		MaxAttempts       int
		RequestsPerSecond int
		ThrottleDelay     int
	}

	Crawl struct {
		Language       string
		ItemTimeoutSec int
	}

	Style struct {
		Command string
	}

	Batch struct {
		RepoListPath   string
		OutputPath     string
		RepoTimeoutSec int
	}

	KafkaProducer struct {
		TopicProfile string
	}

	KafkaConsumer struct {
		GroupId string
	}

	Kafka struct {
		Enabled  bool
		Brokers  []string
		Producer KafkaProducer
		Consumer KafkaConsumer
	}

	Metrics struct {
		Addr string
	}
)

type Config struct {
	App       App
	GithubApi GithubApi
	Crawl     Crawl
	Style     Style
	Batch     Batch
	Mysql     Mysql
	Kafka     Kafka
	Metrics   Metrics
}
