package github

// repositoryQuery requests every signal one enrichment run needs in a single
// round trip: engagement counts, license, the latest default-branch commit,
// up to 25 topics, and the top 3 languages by byte size. totalSize covers all
// of the repository's languages, not just the returned edges.
const repositoryQuery = `
query($owner: String!, $name: String!) {
	repository(owner: $owner, name: $name) {
		stargazerCount
		forkCount
		watchers(first: 0) {
			totalCount
		}
		mentionableUsers(first: 0) {
			totalCount
		}
		licenseInfo {
			spdxId
		}
		defaultBranchRef {
			target {
				... on Commit {
					history(first: 1) {
						nodes {
							committedDate
						}
					}
				}
			}
		}
		repositoryTopics(first: 25) {
			nodes {
				topic {
					name
				}
			}
		}
		languages(first: 3, orderBy: {field: SIZE, direction: DESC}) {
			totalSize
			edges {
				size
				node {
					name
					color
				}
			}
		}
	}
}`

// stargazerQuery is the narrow variant for lightweight star-count refreshes.
const stargazerQuery = `
query($owner: String!, $name: String!) {
	repository(owner: $owner, name: $name) {
		stargazerCount
	}
}`
