package tekton

const (
	ResourceParamURL      = "url"
	ResourceParamRevision = "revision"
)

func NewTask(name string, spec TaskSpec) Task {
	return Task{
		TypeMeta: TypeMeta{APIVersion: APIVersion, Kind: KindTask},
		Metadata: ObjectMeta{Name: name},
		Spec:     spec,
	}
}

func NewTaskRun(name string, spec TaskRunSpec) TaskRun {
	return TaskRun{
		TypeMeta: TypeMeta{APIVersion: APIVersion, Kind: KindTaskRun},
		Metadata: ObjectMeta{Name: name},
		Spec:     spec,
	}
}

// NewGitResource describes a git repository at revision.
func NewGitResource(name, url, revision string) PipelineResource {
	return newPipelineResource(name, "git", []ResourceParam{
		{Name: ResourceParamURL, Value: url},
		{Name: ResourceParamRevision, Value: revision},
	})
}

// NewImageResource describes a container image reference.
func NewImageResource(name, url string) PipelineResource {
	return newPipelineResource(name, "image", []ResourceParam{
		{Name: ResourceParamURL, Value: url},
	})
}

func newPipelineResource(name, typ string, params []ResourceParam) PipelineResource {
	return PipelineResource{
		TypeMeta: TypeMeta{APIVersion: APIVersion, Kind: KindPipelineResource},
		Metadata: ObjectMeta{Name: name},
		Spec:     PipelineResourceSpec{Type: typ, Params: params},
	}
}

func NewServiceAccount(name, secret string) ServiceAccount {
	return ServiceAccount{
		TypeMeta: TypeMeta{APIVersion: CoreAPIVersion, Kind: KindServiceAccount},
		Metadata: ObjectMeta{Name: name},
		Secrets:  []ObjectReference{{Name: secret}},
	}
}

// Param returns the value of the named resource param.
func (r PipelineResource) Param(name string) (string, bool) {
	for _, p := range r.Spec.Params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}
