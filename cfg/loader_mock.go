package cfg

type MockLoader struct{}

func NewMockLoader() (*MockLoader, error) {
	return &MockLoader{}, nil
}

func (ml *MockLoader) Load() (*Config, error) {
	return &Config{
		// App
		App: App{
			Name:    "repo-profiler",
			Version: "0.0.1",
		},

		// GithubApi
		GithubApi: GithubApi{
			BaseUrl:           "https://api.github.com",
			AcceptHeader:      DefaultAcceptHeader,
			RequestTimeoutSec: 10,
			MaxAttempts:       3,
			RequestsPerSecond: 100,
			ThrottleDelay:     1,
		},

		// Crawl
		Crawl: Crawl{
			Language:       "Python",
			ItemTimeoutSec: 10,
		},

		// Style
		Style: Style{
			Command: "",
		},

		// Batch
		Batch: Batch{
			RepoListPath:   "repo_data/top_stars_repos_Python.txt",
			OutputPath:     "repo_data/top_stars_stats_Python.txt",
			RepoTimeoutSec: 60,
		},

		// Mysql
		Mysql: Mysql{
			Enabled:               false,
			Host:                  "127.0.0.1",
			Password:              "root",
			Username:              "root",
			Port:                  "3306",
			Database:              "repo_profiler",
			MaxIdleConnection:     10,
			MaxOpenConnection:     100,
			MaxLifeTimeConnection: 3600,
		},

		// Kafka
		Kafka: Kafka{
			Enabled: false,
			Brokers: []string{"127.0.0.1:9092"},
			Producer: KafkaProducer{
				TopicProfile: "profiles",
			},
			Consumer: KafkaConsumer{
				GroupId: "profile-consumer-group",
			},
		},
	}, nil
}
